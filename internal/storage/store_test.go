// internal/storage/store_test.go
package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type StoreTestSuite struct {
	suite.Suite
	newStore func() Store
	store    Store
	ctx      context.Context
}

func (suite *StoreTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = suite.newStore()
}

func (suite *StoreTestSuite) TearDownTest() {
	suite.store.Close()
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, &StoreTestSuite{
		newStore: func() Store { return NewMemoryStore(time.Hour) },
	})
}

func TestRedisStoreSuite(t *testing.T) {
	suite.Run(t, &StoreTestSuite{
		newStore: func() Store {
			mr := miniredis.RunT(t)
			client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
			return NewRedisStore(client, time.Hour)
		},
	})
}

func (suite *StoreTestSuite) TestSetAndGet() {
	err := suite.store.Set(suite.ctx, "visitor-1", KeyToken, "abc")
	require.NoError(suite.T(), err)

	value, found, err := suite.store.Get(suite.ctx, "visitor-1", KeyToken)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), found)
	assert.Equal(suite.T(), "abc", value)
}

func (suite *StoreTestSuite) TestLastWriterWins() {
	require.NoError(suite.T(), suite.store.Set(suite.ctx, "visitor-1", KeyCustomerID, "1"))
	require.NoError(suite.T(), suite.store.Set(suite.ctx, "visitor-1", KeyCustomerID, "2"))

	value, _, err := suite.store.Get(suite.ctx, "visitor-1", KeyCustomerID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "2", value)
}

func (suite *StoreTestSuite) TestMissingKey() {
	_, found, err := suite.store.Get(suite.ctx, "nobody", KeyGuestCart)
	require.NoError(suite.T(), err)
	assert.False(suite.T(), found)
}

func (suite *StoreTestSuite) TestVisitorsAreIsolated() {
	require.NoError(suite.T(), suite.store.Set(suite.ctx, "visitor-1", KeyToken, "one"))
	require.NoError(suite.T(), suite.store.Set(suite.ctx, "visitor-2", KeyToken, "two"))

	value, _, err := suite.store.Get(suite.ctx, "visitor-2", KeyToken)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "two", value)
}

func (suite *StoreTestSuite) TestRemoveKeepsOtherKeys() {
	require.NoError(suite.T(), suite.store.Set(suite.ctx, "visitor-1", KeyToken, "abc"))
	require.NoError(suite.T(), suite.store.Set(suite.ctx, "visitor-1", KeyUser, "{}"))
	require.NoError(suite.T(), suite.store.Set(suite.ctx, "visitor-1", KeyGuestCart, "[]"))

	require.NoError(suite.T(), suite.store.Remove(suite.ctx, "visitor-1", KeyToken, KeyUser))

	_, found, _ := suite.store.Get(suite.ctx, "visitor-1", KeyToken)
	assert.False(suite.T(), found)
	_, found, _ = suite.store.Get(suite.ctx, "visitor-1", KeyUser)
	assert.False(suite.T(), found)
	_, found, _ = suite.store.Get(suite.ctx, "visitor-1", KeyGuestCart)
	assert.True(suite.T(), found)
}

func (suite *StoreTestSuite) TestJSONHelpers() {
	type payload struct {
		Items []int `json:"items"`
	}

	require.NoError(suite.T(), SetJSON(suite.ctx, suite.store, "visitor-1", KeyGuestSync, payload{Items: []int{1, 2}}))

	var got payload
	found, err := GetJSON(suite.ctx, suite.store, "visitor-1", KeyGuestSync, &got)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), found)
	assert.Equal(suite.T(), []int{1, 2}, got.Items)
}

func (suite *StoreTestSuite) TestTokenSourceUsesContextVisitor() {
	require.NoError(suite.T(), suite.store.Set(suite.ctx, "visitor-1", KeyToken, "secret"))
	tokens := TokenSource(suite.store)

	token, err := tokens.Token(WithVisitor(suite.ctx, "visitor-1"))
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "secret", token)

	token, err = tokens.Token(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), token)
}

func TestMemoryStoreExpiresIdleVisitors(t *testing.T) {
	store := NewMemoryStore(10 * time.Millisecond)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "visitor-1", KeyToken, "abc"))
	time.Sleep(20 * time.Millisecond)

	_, found, err := store.Get(ctx, "visitor-1", KeyToken)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisStoreRefreshesTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(client, time.Hour)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "visitor-1", KeyToken, "abc"))
	assert.Equal(t, time.Hour, mr.TTL("storefront:visitor:visitor-1"))

	mr.FastForward(2 * time.Hour)
	_, found, err := store.Get(ctx, "visitor-1", KeyToken)
	require.NoError(t, err)
	assert.False(t, found)
}
