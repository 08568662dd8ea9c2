package pdbindex

import (
	"fmt"
	"sort"

	"github.com/go-redis/redis/v7"
)

// DefaultRedisPrefix namespaces the index keys.
const DefaultRedisPrefix = "pdbindex"

// RedisStore keeps an index in Redis as one set of category names
// plus one set of IDs per category.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to addr and verifies the connection.
func NewRedisStore(addr, prefix string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: "", // no password set
		DB:       0,  // use default DB
	})
	if _, err := client.Ping().Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis: %v", err)
	}
	return NewRedisStoreFromClient(client, prefix), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) rkCategories() string {
	return fmt.Sprintf("%s:categories", s.prefix)
}

func (s *RedisStore) rkCategory(category string) string {
	return fmt.Sprintf("%s:category:%s", s.prefix, category)
}

// Load reads the whole index. An absent categories set is reported
// as a *MissingIndexError naming the key.
func (s *RedisStore) Load() (Index, error) {
	categories, err := s.client.SMembers(s.rkCategories()).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: %v", err)
	}
	if len(categories) == 0 {
		return nil, &MissingIndexError{Path: "redis://" + s.rkCategories()}
	}
	p := s.client.Pipeline()
	cmds := make(map[string]*redis.StringSliceCmd, len(categories))
	for _, category := range categories {
		cmds[category] = p.SMembers(s.rkCategory(category))
	}
	if _, err := p.Exec(); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("redis: %v", err)
	}
	idx := make(Index, len(categories))
	for category, cmd := range cmds {
		ids, err := cmd.Result()
		if err != nil && err != redis.Nil {
			return nil, fmt.Errorf("redis: %v", err)
		}
		sort.Strings(ids)
		idx[category] = ids
	}
	return idx, nil
}

// Save replaces the stored index with idx in a single transaction.
// Empty categories are kept in the category set.
func (s *RedisStore) Save(idx Index) error {
	old, err := s.client.SMembers(s.rkCategories()).Result()
	if err != nil {
		return fmt.Errorf("redis: %v", err)
	}
	p := s.client.TxPipeline()
	for _, category := range old {
		p.Del(s.rkCategory(category))
	}
	p.Del(s.rkCategories())
	for _, category := range idx.Categories() {
		p.SAdd(s.rkCategories(), category)
		ids := idx[category]
		if len(ids) == 0 {
			continue
		}
		members := make([]interface{}, len(ids))
		for i, id := range ids {
			members[i] = id
		}
		p.SAdd(s.rkCategory(category), members...)
	}
	if _, err := p.Exec(); err != nil {
		return fmt.Errorf("redis: %v", err)
	}
	return nil
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
