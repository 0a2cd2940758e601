package fs

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/maastrich/cockpit/internal/core/domain"
	"github.com/maastrich/cockpit/internal/core/ports"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher implements ports.Hasher with the spec-mandated SHA-256
// metadata-only fingerprint (spec §4.4) — deliberately not the teacher's
// xxhash content hash: the spec fixes the algorithm and fixes hashing file
// metadata (path, mtime, size) rather than file bytes.
type Hasher struct {
	resolver ports.InputResolver
}

// NewHasher creates a new Hasher over an InputResolver.
func NewHasher(resolver ports.InputResolver) *Hasher {
	return &Hasher{resolver: resolver}
}

// ComputeInputHash implements spec §4.4's four-step digest: command,
// extraArgs (main tasks only), env, then input file metadata.
func (h *Hasher) ComputeInputHash(task domain.ResolvedTask, workspacePath string, extraArgs []string) (string, error) {
	digest := sha256.New()
	def := task.Definition

	digest.Write([]byte(def.Command.Canonical()))
	digest.Write([]byte{0})

	if len(extraArgs) > 0 {
		for _, a := range extraArgs {
			digest.Write([]byte(a))
			digest.Write([]byte{0})
		}
	}
	digest.Write([]byte{0})

	writeEnv(digest, def.Env)

	patterns := def.Inputs
	if len(patterns) == 0 {
		patterns = []string{"**/*"}
	}

	files, err := h.resolver.ResolveInputs(patterns, workspacePath, domain.GlobExcludeDirs)
	if err != nil {
		return "", err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })

	for _, f := range files {
		digest.Write([]byte(f.RelPath))
		digest.Write([]byte{0})
		digest.Write([]byte(f.ModTime))
		digest.Write([]byte{0})
		fmt.Fprintf(digest, "%d", f.Size)
		digest.Write([]byte{0})
	}

	sum := digest.Sum(nil)
	return hex.EncodeToString(sum)[:16], nil
}

func writeEnv(digest interface{ Write([]byte) (int, error) }, env map[string]string) {
	if len(env) == 0 {
		digest.Write([]byte{0})
		return
	}
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		digest.Write([]byte(k))
		digest.Write([]byte{'='})
		digest.Write([]byte(env[k]))
		digest.Write([]byte{0})
	}
	digest.Write([]byte{0})
}
