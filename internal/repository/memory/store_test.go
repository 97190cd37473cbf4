package memory

import (
	"testing"

	"courseapp/internal/repository"
	"courseapp/internal/repository/repotest"
)

func TestMemoryStoreConformance(t *testing.T) {
	repotest.Run(t, func(t *testing.T) repository.Repositories {
		return New().Repositories()
	})
}
