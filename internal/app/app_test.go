package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fsanano/foodexpress/internal/cart"
	"fsanano/foodexpress/internal/model"
	"fsanano/foodexpress/internal/service/foodapi/foodapitest"
	"fsanano/foodexpress/internal/session"
)

func TestNew_RestoredTokenIsSent(t *testing.T) {
	backend := foodapitest.New(t)
	token := backend.IssueToken(model.User{ID: 1, Username: "ada"})

	tokens := session.NewMemoryTokenStore()
	require.NoError(t, tokens.Save(context.Background(), token))

	root := New(Config{APIURL: backend.URL(), CartPolicy: cart.PolicyReplace}, tokens)
	require.NoError(t, root.Restore(context.Background()))
	assert.True(t, root.Session.IsAuthenticated())
	assert.Equal(t, cart.PolicyReplace, root.Cart.Policy())

	user, err := root.Account.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ada", user.Username)
}

func TestNew_RootsAreIndependent(t *testing.T) {
	backend := foodapitest.New(t)
	a := New(Config{APIURL: backend.URL()}, nil)
	b := New(Config{APIURL: backend.URL()}, nil)

	require.NoError(t, a.Session.Login(context.Background(), "tok", model.User{}))
	assert.True(t, a.Session.IsAuthenticated())
	assert.False(t, b.Session.IsAuthenticated())
	assert.NotSame(t, a.Cart, b.Cart)
}
