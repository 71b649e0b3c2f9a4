package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/apperror"
	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/entity"
	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/qtable"
)

const (
	fieldSeparator = "|"
	hsetBatchSize  = 1000
)

// redisTable keeps every pair as a field "<state>|<action>" of one hash.
// A sibling "<key>:size" holds the entry count written by the last save.
type redisTable struct {
	client *redis.Client
	key    string
}

func NewRedisTableRepository(client *redis.Client, key string) TableRepository {
	return &redisTable{
		client: client,
		key:    key,
	}
}

func (that *redisTable) Location() string {
	return "redis:" + that.key
}

func (that *redisTable) sizeKey() string {
	return that.key + ":size"
}

func (that *redisTable) Load(ctx context.Context) (*qtable.Table, error) {
	fields, err := that.client.HGetAll(ctx, that.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read q-table %s: %w", that.Location(), err)
	}

	size, err := that.client.Get(ctx, that.sizeKey()).Int()
	if errors.Is(err, redis.Nil) {
		if len(fields) == 0 {
			return nil, fmt.Errorf("%w: %s", apperror.ErrTableNotFound, that.Location())
		}
		return nil, fmt.Errorf("%w: %s: size marker is missing", apperror.ErrCorruptTable, that.Location())
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %s: bad size marker: %w", apperror.ErrCorruptTable, that.Location(), err)
	}

	if size != len(fields) {
		return nil, fmt.Errorf("%w: %s: expected %d entries, found %d", apperror.ErrCorruptTable, that.Location(), size, len(fields))
	}

	table := qtable.New()
	for field, rawValue := range fields {
		state, action, err := parseField(field)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", that.Location(), err)
		}

		value, err := strconv.ParseFloat(rawValue, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: value of %q: %w", apperror.ErrCorruptTable, that.Location(), field, err)
		}

		if err = validateEntry(state, action, value); err != nil {
			return nil, fmt.Errorf("%s: %w", that.Location(), err)
		}

		table.Update(state, action, value)
	}

	return table, nil
}

func (that *redisTable) Save(ctx context.Context, table *qtable.Table) error {
	entries := table.Entries()

	_, err := that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, that.key, that.sizeKey())

		for start := 0; start < len(entries); start += hsetBatchSize {
			end := min(start+hsetBatchSize, len(entries))

			values := make([]any, 0, 2*(end-start))
			for _, entry := range entries[start:end] {
				values = append(values, formatField(entry.State, entry.Action), strconv.FormatFloat(entry.Value, 'g', -1, 64))
			}

			pipe.HSet(ctx, that.key, values...)
		}

		pipe.Set(ctx, that.sizeKey(), len(entries), 0)

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save q-table %s: %w", that.Location(), err)
	}

	return nil
}

func formatField(state entity.StateKey, action int) string {
	return string(state) + fieldSeparator + strconv.Itoa(action)
}

func parseField(field string) (entity.StateKey, int, error) {
	idx := strings.LastIndex(field, fieldSeparator)
	if idx < 0 {
		return "", 0, fmt.Errorf("%w: field %q has no separator", apperror.ErrCorruptTable, field)
	}

	action, err := strconv.Atoi(field[idx+1:])
	if err != nil {
		return "", 0, fmt.Errorf("%w: field %q has a bad action", apperror.ErrCorruptTable, field)
	}

	return entity.StateKey(field[:idx]), action, nil
}
