package cloud

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCloud struct {
	mock.Mock
}

func (m *mockCloud) Login(ctx context.Context, user, password string) error {
	return m.Called(ctx, user, password).Error(0)
}

func (m *mockCloud) Logout() {
	m.Called()
}

func (m *mockCloud) ListDevices(ctx context.Context) ([]Device, error) {
	args := m.Called(ctx)
	return args.Get(0).([]Device), args.Error(1)
}

func (m *mockCloud) GetVariable(ctx context.Context, deviceID, name string) (string, error) {
	args := m.Called(ctx, deviceID, name)
	return args.String(0), args.Error(1)
}

func (m *mockCloud) PublishEvent(ctx context.Context, evt OutboundEvent) error {
	return m.Called(ctx, evt).Error(0)
}

func (m *mockCloud) Subscribe(ctx context.Context, prefix string) (<-chan Event, error) {
	args := m.Called(ctx, prefix)
	return args.Get(0).(<-chan Event), args.Error(1)
}

func TestSession_Login(t *testing.T) {
	mc := new(mockCloud)
	mc.On("Login", mock.Anything, "ron", "pw").Return(nil)
	mc.On("Logout").Once()

	s := NewSession(mc)
	assert.ErrorIs(t, s.Require(), ErrNotLoggedIn)

	require.NoError(t, s.Login(context.Background(), "ron", "pw"))
	assert.True(t, s.IsLoggedIn())
	assert.Equal(t, "ron", s.User())
	assert.NoError(t, s.Require())

	s.Logout()
	assert.False(t, s.IsLoggedIn())
	assert.Empty(t, s.User())
	assert.ErrorIs(t, s.Require(), ErrNotLoggedIn)
	mc.AssertExpectations(t)
}

func TestSession_LoginFailure(t *testing.T) {
	mc := new(mockCloud)
	vendorErr := errors.New("User credentials are invalid")
	mc.On("Login", mock.Anything, "ron", "bad").Return(vendorErr)

	s := NewSession(mc)
	err := s.Login(context.Background(), "ron", "bad")

	assert.ErrorIs(t, err, ErrAuth)
	assert.Contains(t, err.Error(), "User credentials are invalid")
	assert.False(t, s.IsLoggedIn())
}

func TestVariableReader_UndeclaredSkipsNetwork(t *testing.T) {
	mc := new(mockCloud)
	r := NewVariableReader(mc)

	dev := Device{ID: "d1", Name: "panel", Variables: map[string]string{"Devices": "string"}}
	v, err := r.Read(context.Background(), dev, "Activities")

	require.NoError(t, err)
	assert.False(t, v.Declared)
	mc.AssertNotCalled(t, "GetVariable", mock.Anything, mock.Anything, mock.Anything)
}

func TestVariableReader_EmptyIsDeclared(t *testing.T) {
	mc := new(mockCloud)
	mc.On("GetVariable", mock.Anything, "d1", "Devices").Return("", nil)
	r := NewVariableReader(mc)

	dev := Device{ID: "d1", Name: "panel", Variables: map[string]string{"Devices": "string"}}
	v, err := r.Read(context.Background(), dev, "Devices")

	require.NoError(t, err)
	assert.Equal(t, Variable{Declared: true, Value: ""}, v)
}

func TestVariableReader_Error(t *testing.T) {
	mc := new(mockCloud)
	mc.On("GetVariable", mock.Anything, "d1", "Devices").Return("", errors.New("timed out"))
	r := NewVariableReader(mc)

	dev := Device{ID: "d1", Name: "panel", Variables: map[string]string{"Devices": "string"}}
	_, err := r.Read(context.Background(), dev, "Devices")

	assert.ErrorIs(t, err, ErrRead)
}

func TestNullCloud(t *testing.T) {
	c := NewNullCloud()
	ctx := context.Background()

	assert.ErrorIs(t, c.Login(ctx, "a", "b"), ErrNotConfigured)
	_, err := c.ListDevices(ctx)
	assert.ErrorIs(t, err, ErrNotLoggedIn)
	_, err = c.Subscribe(ctx, "patriot")
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}
