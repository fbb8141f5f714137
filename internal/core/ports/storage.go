package ports

import "io/fs"

// Storage holds compiled output, on disk or in memory.
type Storage interface {
	fs.FS

	// ReadFile returns the content of the named file.
	ReadFile(name string) ([]byte, error)

	// WriteFile stores data under name, creating parent directories.
	WriteFile(name string, data []byte) error

	// RemoveAll deletes name and everything below it.
	RemoveAll(name string) error
}
