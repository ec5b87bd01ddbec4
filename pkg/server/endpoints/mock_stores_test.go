package endpoints

import (
	"github.com/stretchr/testify/mock"

	"github.com/immpres/immpres-server/pkg/model"
	"github.com/immpres/immpres-server/pkg/query"
)

type mockUsersStore struct {
	mock.Mock
}

func (m *mockUsersStore) FindByLogin(login string) (*model.User, error) {
	args := m.Called(login)
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUsersStore) FindByID(id string) (*model.User, error) {
	args := m.Called(id)
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUsersStore) FindByIDAndToken(id, token string) (*model.User, error) {
	args := m.Called(id, token)
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUsersStore) FindByActivationToken(token string) (*model.User, error) {
	args := m.Called(token)
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUsersStore) Create(user *model.User) error {
	return m.Called(user).Error(0)
}

func (m *mockUsersStore) Save(user *model.User) error {
	return m.Called(user).Error(0)
}

type mockResourcesStore struct {
	mock.Mock
}

func (m *mockResourcesStore) List(kind model.Kind, criteria query.Criteria, principal string) ([]model.Resource, error) {
	args := m.Called(kind, criteria, principal)
	if rows := args.Get(0); rows != nil {
		return rows.([]model.Resource), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockResourcesStore) Find(kind model.Kind, id string) (*model.Resource, error) {
	args := m.Called(kind, id)
	if r := args.Get(0); r != nil {
		return r.(*model.Resource), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockResourcesStore) Create(resource *model.Resource) error {
	return m.Called(resource).Error(0)
}

func (m *mockResourcesStore) Save(resource *model.Resource) error {
	return m.Called(resource).Error(0)
}

func (m *mockResourcesStore) Delete(resource *model.Resource) error {
	return m.Called(resource).Error(0)
}

type mockHealthStore struct {
	mock.Mock
}

func (m *mockHealthStore) CheckConnectivity() error {
	return m.Called().Error(0)
}
