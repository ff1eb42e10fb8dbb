package runtime

import (
	"strconv"
	"time"

	"github.com/aidarkhanov/nanoid"
	lru "github.com/hashicorp/golang-lru/v2"

	"mlactions/pkg/types"
)

const (
	activationAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	activationIDLen    = 16
)

// ActivationLog keeps the most recent activations, evicting the oldest.
type ActivationLog struct {
	cache *lru.Cache[string, types.Activation]
}

// NewActivationLog returns a log holding at most size records.
func NewActivationLog(size int) (*ActivationLog, error) {
	if size <= 0 {
		size = defaultMaxActivations
	}
	c, err := lru.New[string, types.Activation](size)
	if err != nil {
		return nil, err
	}
	return &ActivationLog{cache: c}, nil
}

// Record stores a, assigning an id when it has none, and returns the id.
func (l *ActivationLog) Record(a types.Activation) string {
	if a.ID == "" {
		a.ID = newActivationID()
	}
	l.cache.Add(a.ID, a)
	return a.ID
}

// Get returns the activation with id.
func (l *ActivationLog) Get(id string) (types.Activation, bool) {
	return l.cache.Get(id)
}

// Len returns the number of retained activations.
func (l *ActivationLog) Len() int { return l.cache.Len() }

func newActivationID() string {
	id, err := nanoid.Generate(activationAlphabet, activationIDLen)
	if err != nil {
		// crypto/rand failure; fall back to a time-based id
		return strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return id
}
