package meta

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/gomodule/redigo/redis"
)

type Redis struct {
	pool *redis.Pool
}

//redis key [variables] - description
//api_key#keyId - json string with the full api key record
func NewRedis(host string, port int, password string) (*Redis, error) {
	r := &Redis{pool: &redis.Pool{
		MaxIdle:     100,
		MaxActive:   600,
		IdleTimeout: 240 * time.Second,

		Wait: false,
		Dial: func() (redis.Conn, error) {
			c, err := redis.Dial(
				"tcp",
				host+":"+strconv.Itoa(port),
				redis.DialConnectTimeout(10*time.Second),
				redis.DialReadTimeout(10*time.Second),
				redis.DialPassword(password),
			)
			if err != nil {
				return nil, err
			}
			return c, err
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			_, err := c.Do("PING")
			return err
		},
	}}

	//test connection
	connection := r.pool.Get()
	defer connection.Close()
	_, err := redis.String(connection.Do("PING"))
	if err != nil {
		return nil, fmt.Errorf("Error testing connection to Redis: %v", err)
	}

	return r, nil
}

func (r *Redis) GetAPIKey(id string) (*APIKey, error) {
	key := "api_key#" + id
	connection := r.pool.Get()
	defer connection.Close()
	payload, err := redis.String(connection.Do("GET", key))
	if err != nil {
		if err == redis.ErrNil {
			return nil, nil
		}

		return nil, err
	}

	apiKey := &APIKey{}
	if err := json.Unmarshal([]byte(payload), apiKey); err != nil {
		return nil, fmt.Errorf("Error unmarshalling api key [%s]: %v", id, err)
	}

	return apiKey, nil
}

//SaveAPIKey overwrites the whole record by id. Read-modify-write
//composition is on the caller.
func (r *Redis) SaveAPIKey(apiKey *APIKey) error {
	payload, err := json.Marshal(apiKey)
	if err != nil {
		return fmt.Errorf("Error marshalling api key [%s]: %v", apiKey.ID, err)
	}

	key := "api_key#" + apiKey.ID
	connection := r.pool.Get()
	defer connection.Close()
	_, err = connection.Do("SET", key, string(payload))
	if err != nil && err != redis.ErrNil {
		return err
	}

	return nil
}

func (r *Redis) Type() string {
	return RedisType
}

func (r *Redis) Close() error {
	return r.pool.Close()
}
