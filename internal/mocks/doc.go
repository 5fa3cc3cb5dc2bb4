// Package mocks contains mocks for the interfaces in internal/model.
package mocks
