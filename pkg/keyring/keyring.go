// Package keyring stores small secrets in the operating system's keyring.
package keyring

import (
	"errors"

	zk "github.com/zalando/go-keyring"
)

var (
	ErrNotFound = errors.New("secret not found in keyring")
	ErrTooBig   = errors.New("secret too big for keyring")
)

type Item struct {
	Secret string
}

// Ring is a namespace of secrets belonging to one service.
type Ring struct {
	serviceName string
}

func Open(service string) (*Ring, error) {
	if service == "" {
		return nil, errors.New("keyring service name must not be empty")
	}
	return &Ring{serviceName: service}, nil
}

// Put stores item under name. A nil item deletes the secret.
func (r *Ring) Put(name string, item *Item) error {
	if item == nil {
		return r.Delete(name)
	}

	err := zk.Set(r.serviceName, name, item.Secret)
	if errors.Is(err, zk.ErrSetDataTooBig) {
		return ErrTooBig
	}
	return err
}

func (r *Ring) Get(name string) (*Item, error) {
	secret, err := zk.Get(r.serviceName, name)
	if errors.Is(err, zk.ErrNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return &Item{
		Secret: secret,
	}, nil
}

// Delete removes the secret stored under name.
func (r *Ring) Delete(name string) error {
	err := zk.Delete(r.serviceName, name)
	if errors.Is(err, zk.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
