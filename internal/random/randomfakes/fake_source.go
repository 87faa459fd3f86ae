package randomfakes

import (
	"strings"
	"sync"

	"github.com/arvellum/go-session-auth/internal/random"
)

var _ random.Source = (*FakeSource)(nil)

// FakeSource is a deterministic random.Source for tests. Alphanumeric
// pops queued values in order so a test can control the session id and
// secret independently; once the queue is drained it falls back to a
// repeated filler padded to the requested length.
type FakeSource struct {
	AlphanumericQueue []string
	Base64URLValue    string
	UUIDValue         string

	AlphanumericCalls int
	lock              sync.Mutex
}

func NewFakeSource() *FakeSource {
	return &FakeSource{
		Base64URLValue: "fixed-state-value",
		UUIDValue:      "00000000-0000-0000-0000-000000000000",
	}
}

func (f *FakeSource) Alphanumeric(length int) string {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.AlphanumericCalls++
	if len(f.AlphanumericQueue) > 0 {
		v := f.AlphanumericQueue[0]
		f.AlphanumericQueue = f.AlphanumericQueue[1:]
		return v
	}
	return strings.Repeat("x", length)
}

func (f *FakeSource) Base64URL(int) string {
	return f.Base64URLValue
}

func (f *FakeSource) UUID() string {
	return f.UUIDValue
}
