package ports

import "go.trai.ch/gourmet/internal/core/domain"

// HotNotifier tells connected browsers about client rebuilds.
//
//go:generate mockgen -source=hot.go -destination=mocks/mock_hot.go -package=mocks
type HotNotifier interface {
	// Compiling announces that a client rebuild started.
	Compiling()

	// Ready announces that every bundle is ready, with the client hash.
	Ready(hash string)

	// OnClientResult receives the client's watch results.
	OnClientResult(err error, result *domain.CompiledResult)
}
