package service

import (
	"context"

	"fsanano/foodexpress/internal/model"
	"fsanano/foodexpress/internal/service/foodapi"
	"fsanano/foodexpress/internal/session"
)

// AccountService covers sign-in and the pages that need a signed-in user.
type AccountService struct {
	api     *foodapi.Client
	session *session.Store
}

func NewAccountService(api *foodapi.Client, sess *session.Store) *AccountService {
	return &AccountService{api: api, session: sess}
}

func (s *AccountService) Login(ctx context.Context, email, password string) (model.User, error) {
	res, err := s.api.Login(ctx, foodapi.Credentials{Email: email, Password: password})
	if err != nil {
		return model.User{}, err
	}
	// Nobody is waiting for this login any more; do not sign in behind their back.
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}
	if err := s.session.Login(ctx, res.Token, res.User); err != nil {
		return model.User{}, err
	}
	return res.User, nil
}

func (s *AccountService) Register(ctx context.Context, reg foodapi.Registration) (model.User, error) {
	return s.api.Register(ctx, reg)
}

func (s *AccountService) Logout(ctx context.Context) error {
	return s.session.Logout(ctx)
}

// Profile fetches the signed-in user and remembers it on the session.
func (s *AccountService) Profile(ctx context.Context) (model.User, error) {
	token, err := s.token()
	if err != nil {
		return model.User{}, err
	}

	user, err := s.api.GetProfile(ctx)
	if err != nil {
		return model.User{}, expireOnUnauthorized(ctx, s.session, token, err)
	}
	if ctx.Err() == nil {
		s.session.SetUser(token, user)
	}
	return user, nil
}

func (s *AccountService) Orders(ctx context.Context) ([]model.Order, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}

	orders, err := s.api.ListOrders(ctx)
	if err != nil {
		return nil, expireOnUnauthorized(ctx, s.session, token, err)
	}
	return orders, nil
}

func (s *AccountService) Order(ctx context.Context, id int64) (model.Order, error) {
	token, err := s.token()
	if err != nil {
		return model.Order{}, err
	}

	order, err := s.api.GetOrder(ctx, id)
	if err != nil {
		return model.Order{}, expireOnUnauthorized(ctx, s.session, token, err)
	}
	return order, nil
}

func (s *AccountService) CancelOrder(ctx context.Context, id int64, reason string) (model.Order, error) {
	token, err := s.token()
	if err != nil {
		return model.Order{}, err
	}

	order, err := s.api.CancelOrder(ctx, id, reason)
	if err != nil {
		return model.Order{}, expireOnUnauthorized(ctx, s.session, token, err)
	}
	return order, nil
}

func (s *AccountService) token() (string, error) {
	token := s.session.Token()
	if token == "" {
		return "", session.ErrNoSession
	}
	return token, nil
}
