package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	redisclient "github.com/transitpadi/transit-backend/pkg/redis"
)

type cachedSettings struct {
	SupportPhone string `json:"support_phone"`
	BookingsOpen bool   `json:"bookings_open"`
}

func newTestManager(t *testing.T) (*Manager, redismock.ClientMock) {
	t.Helper()
	db, mock := redismock.NewClientMock()
	return NewManager(redisclient.NewFromClient(db)), mock
}

func TestGetOrSet_CacheHit(t *testing.T) {
	manager, mock := newTestManager(t)

	mock.ExpectGet("settings:operations").SetVal(`{"support_phone":"+2348001234567","bookings_open":true}`)

	var result cachedSettings
	err := manager.GetOrSet(context.Background(), "settings:operations", time.Minute, &result, func() (interface{}, error) {
		t.Fatal("loader must not run on a cache hit")
		return nil, nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "+2348001234567", result.SupportPhone)
	assert.True(t, result.BookingsOpen)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrSet_CacheMissLoadsAndStores(t *testing.T) {
	manager, mock := newTestManager(t)

	mock.ExpectGet("settings:operations").RedisNil()
	mock.ExpectSet("settings:operations", `{"support_phone":"+2348001234567","bookings_open":true}`, time.Minute).SetVal("OK")

	var result cachedSettings
	err := manager.GetOrSet(context.Background(), "settings:operations", time.Minute, &result, func() (interface{}, error) {
		return &cachedSettings{SupportPhone: "+2348001234567", BookingsOpen: true}, nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "+2348001234567", result.SupportPhone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrSet_LoaderErrorPropagates(t *testing.T) {
	manager, mock := newTestManager(t)

	mock.ExpectGet("trip:abc").RedisNil()

	var result cachedSettings
	err := manager.GetOrSet(context.Background(), "trip:abc", time.Minute, &result, func() (interface{}, error) {
		return nil, errors.New("database down")
	})

	assert.Error(t, err)
	assert.EqualError(t, err, "database down")
}

func TestGetOrSet_FailedCacheWriteStillReturnsData(t *testing.T) {
	manager, mock := newTestManager(t)

	mock.ExpectGet("settings:operations").RedisNil()
	mock.ExpectSet("settings:operations", `{"support_phone":"","bookings_open":false}`, time.Minute).
		SetErr(errors.New("redis write failed"))

	var result cachedSettings
	err := manager.GetOrSet(context.Background(), "settings:operations", time.Minute, &result, func() (interface{}, error) {
		return &cachedSettings{}, nil
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	manager, mock := newTestManager(t)

	mock.ExpectDel("settings:operations", "settings:charter_packages").SetVal(2)

	err := manager.Delete(context.Background(), "settings:operations", "settings:charter_packages")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
