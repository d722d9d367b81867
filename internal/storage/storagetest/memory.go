// Package storagetest provides an in-memory storage.Storage for tests.
package storagetest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"fishlog_backend/internal/storage"
	"fishlog_backend/pkg/apperrors"
)

const baseURL = "https://cdn.test/bucket"

type object struct {
	data        []byte
	contentType string
	modified    time.Time
}

// MemoryStorage keeps objects in a map. Failure hooks allow simulating
// backend errors per key.
type MemoryStorage struct {
	storage.DefaultKeyBuilder

	mu      sync.Mutex
	objects map[string]object

	// FailUpload returns true for keys whose upload must fail
	FailUpload func(key string) bool
	// FailDelete returns true for keys whose delete must fail
	FailDelete func(key string) bool

	Uploads int
	Deletes int
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{objects: make(map[string]object)}
}

func (m *MemoryStorage) Backend() string { return "memory" }

func (m *MemoryStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Uploads++

	if m.FailUpload != nil && m.FailUpload(key) {
		return "", apperrors.Storage(errors.New("simulated upload failure"), "Error al subir el archivo al almacenamiento")
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", apperrors.Storage(err, "Error al subir el archivo al almacenamiento")
	}
	m.objects[key] = object{data: data, contentType: contentType, modified: time.Now()}
	return fmt.Sprintf("%s/%s", baseURL, key), nil
}

func (m *MemoryStorage) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deletes++

	if m.FailDelete != nil && m.FailDelete(key) {
		return apperrors.Storage(errors.New("simulated delete failure"), "Error al eliminar el archivo del almacenamiento")
	}
	delete(m.objects, key)
	return nil
}

func (m *MemoryStorage) Exists(ctx context.Context, key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}

func (m *MemoryStorage) GetMetadata(ctx context.Context, key string) (*storage.ObjectMetadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[key]
	if !ok {
		return nil, apperrors.Storage(storage.ErrObjectNotFound, "Error al obtener los metadatos del archivo")
	}
	return &storage.ObjectMetadata{
		Size:         int64(len(obj.data)),
		ContentType:  obj.contentType,
		LastModified: obj.modified,
	}, nil
}

func (m *MemoryStorage) KeyFromURL(url string) string {
	return strings.TrimPrefix(url, baseURL+"/")
}

// Object returns a copy of the stored bytes
func (m *MemoryStorage) Object(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[key]
	if !ok {
		return nil, false
	}
	return bytes.Clone(obj.data), true
}

// Put stores raw bytes directly, bypassing failure hooks
func (m *MemoryStorage) Put(key string, data []byte, contentType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = object{data: data, contentType: contentType, modified: time.Now()}
}

// Remove drops an object directly, bypassing failure hooks
func (m *MemoryStorage) Remove(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
}

func (m *MemoryStorage) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
