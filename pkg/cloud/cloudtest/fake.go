// Package cloudtest provides an in-memory cloud for tests.
package cloudtest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/urmzd/patriot/pkg/cloud"
)

// ErrFake is returned by the fake when an error is injected without a specific value.
var ErrFake = errors.New("fake cloud error")

// Fake is an in-memory cloud.Cloud. Zero value is not usable; call New.
type Fake struct {
	mu sync.Mutex

	User     string
	Password string

	devices   []cloud.Device
	variables map[string]map[string]string // device ID -> variable -> value
	readErrs  map[string]map[string]error  // device ID -> variable -> error
	reads     map[string]int               // "id/name" -> count
	blockRead map[string]chan struct{}     // "id/name" -> released when closed

	LoginErr   error
	ListErr    error
	PublishErr error
	StreamErr  error

	published []cloud.OutboundEvent
	stream    chan cloud.Event
	logouts   int
}

// New creates a fake that accepts the given credentials.
func New(user, password string) *Fake {
	return &Fake{
		User:      user,
		Password:  password,
		variables: make(map[string]map[string]string),
		readErrs:  make(map[string]map[string]error),
		reads:     make(map[string]int),
		blockRead: make(map[string]chan struct{}),
		stream:    make(chan cloud.Event, 16),
	}
}

// AddDevice registers a device exposing the given variables.
func (f *Fake) AddDevice(id, name string, connected bool, vars map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	declared := make(map[string]string, len(vars))
	values := make(map[string]string, len(vars))
	for k, v := range vars {
		declared[k] = "string"
		values[k] = v
	}
	f.devices = append(f.devices, cloud.Device{ID: id, Name: name, Connected: connected, Variables: declared})
	f.variables[id] = values
}

// RemoveDevice drops a device from the account listing.
func (f *Fake) RemoveDevice(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	kept := f.devices[:0]
	for _, d := range f.devices {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	f.devices = kept
}

// FailRead makes reads of the named variable on the device fail.
func (f *Fake) FailRead(id, name string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err == nil {
		err = ErrFake
	}
	if f.readErrs[id] == nil {
		f.readErrs[id] = make(map[string]error)
	}
	f.readErrs[id][name] = err
}

// BlockRead makes reads of the named variable wait until the returned func is called.
func (f *Fake) BlockRead(id, name string) (release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch := make(chan struct{})
	f.blockRead[id+"/"+name] = ch
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

// Reads returns how many times the variable was fetched.
func (f *Fake) Reads(id, name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads[id+"/"+name]
}

// Published returns the events published so far.
func (f *Fake) Published() []cloud.OutboundEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]cloud.OutboundEvent(nil), f.published...)
}

// Emit pushes an event onto the subscription stream.
func (f *Fake) Emit(evt cloud.Event) {
	f.stream <- evt
}

// CloseStream ends the subscription stream.
func (f *Fake) CloseStream() {
	close(f.stream)
}

func (f *Fake) Login(ctx context.Context, user, password string) error {
	if f.LoginErr != nil {
		return f.LoginErr
	}
	if user != f.User || password != f.Password {
		return fmt.Errorf("invalid user or password")
	}
	return nil
}

func (f *Fake) Logout() {
	f.mu.Lock()
	f.logouts++
	f.mu.Unlock()
}

// Logouts returns how many times Logout was called.
func (f *Fake) Logouts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logouts
}

func (f *Fake) ListDevices(ctx context.Context) ([]cloud.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return append([]cloud.Device(nil), f.devices...), nil
}

func (f *Fake) GetVariable(ctx context.Context, deviceID, name string) (string, error) {
	key := deviceID + "/" + name

	f.mu.Lock()
	f.reads[key]++
	block := f.blockRead[key]
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.readErrs[deviceID][name]; err != nil {
		return "", err
	}
	return f.variables[deviceID][name], nil
}

func (f *Fake) PublishEvent(ctx context.Context, evt cloud.OutboundEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.PublishErr != nil {
		return f.PublishErr
	}
	f.published = append(f.published, evt)
	return nil
}

func (f *Fake) Subscribe(ctx context.Context, prefix string) (<-chan cloud.Event, error) {
	if f.StreamErr != nil {
		return nil, f.StreamErr
	}
	return f.stream, nil
}
