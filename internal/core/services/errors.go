package services

import "errors"

// ErrMissingBackend is returned when the backend is not provided.
var ErrMissingBackend = errors.New("services: backend is required")

// ErrMissingDocumentStore is returned when the document store is not provided.
var ErrMissingDocumentStore = errors.New("services: document store is required")

// ErrMissingPresenter is returned when the presenter is not provided.
var ErrMissingPresenter = errors.New("services: presenter is required")
