package store

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/datastore"
	"github.com/tckz/go-visit-counter/internal/visit"
)

const (
	DefaultKind = "VisitCounter"
	DefaultName = "visits"
)

var _ visit.RemoteCounterStore = (*DatastoreCounterStore)(nil)

// DatastoreCounterStore keeps the record as a single named entity.
// Update merges the record's properties into whatever the entity already holds.
// It is not transactional: the last writer wins.
type DatastoreCounterStore struct {
	client *datastore.Client
	key    *datastore.Key
}

func NewDatastoreCounterStore(client *datastore.Client, kind, name, namespace string) *DatastoreCounterStore {
	key := datastore.NameKey(kind, name, nil)
	key.Namespace = namespace
	return &DatastoreCounterStore{client: client, key: key}
}

func (s *DatastoreCounterStore) Key() *datastore.Key {
	return s.key
}

func (s *DatastoreCounterStore) Get(ctx context.Context) (*visit.Record, error) {
	var rec visit.Record
	err := s.client.Get(ctx, s.key, &rec)
	if errors.Is(err, datastore.ErrNoSuchEntity) {
		return nil, nil
	}
	// Properties written by something else are not ours to interpret.
	var mismatch *datastore.ErrFieldMismatch
	if err != nil && !errors.As(err, &mismatch) {
		return nil, fmt.Errorf("client.Get: key=%v, %w", s.key, err)
	}
	return &rec, nil
}

func (s *DatastoreCounterStore) Update(ctx context.Context, rec visit.Record) error {
	var current datastore.PropertyList
	if err := s.client.Get(ctx, s.key, &current); err != nil && !errors.Is(err, datastore.ErrNoSuchEntity) {
		return fmt.Errorf("client.Get: key=%v, %w", s.key, err)
	}

	props, err := datastore.SaveStruct(&rec)
	if err != nil {
		return fmt.Errorf("datastore.SaveStruct: %w", err)
	}

	merged := mergeProperties(current, props)
	if _, err := s.client.Put(ctx, s.key, &merged); err != nil {
		return fmt.Errorf("client.Put: key=%v, %w", s.key, err)
	}
	return nil
}

// mergeProperties replaces properties of the same name and appends the rest.
func mergeProperties(current, updates []datastore.Property) datastore.PropertyList {
	replaced := make(map[string]bool, len(updates))
	for _, p := range updates {
		replaced[p.Name] = true
	}

	merged := make(datastore.PropertyList, 0, len(current)+len(updates))
	for _, p := range current {
		if !replaced[p.Name] {
			merged = append(merged, p)
		}
	}
	return append(merged, updates...)
}
