package utils

import (
	"fmt"
	"math/rand"

	"github.com/Pallinder/go-randomdata"
)

// NameGenerator hands out unique debug names for nodes created without
// one. Deterministically seeded so scene dumps are stable across runs.
type NameGenerator struct {
	used map[string]struct{}
}

func (ng *NameGenerator) Name() string {
	if ng.used == nil {
		ng.used = make(map[string]struct{})
		randomdata.CustomRand(rand.New(rand.NewSource(0)))
	}
	for i := 0; ; i++ {
		name := randomdata.SillyName()
		if i > 0 {
			name = fmt.Sprintf("%s%d", name, i)
		}
		if _, exists := ng.used[name]; !exists {
			ng.used[name] = struct{}{}
			return name
		}
	}
}
