package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueueDrain(t *testing.T) {
	q := NewQueue(3)
	ctx := context.Background()
	for _, title := range []string{"a", "b", "c", "d"} {
		q.Notify(ctx, Notification{Title: title})
	}

	got := q.Drain()
	assert.Equal(t, []Notification{{Title: "b"}, {Title: "c"}, {Title: "d"}}, got)
	assert.Empty(t, q.Drain())
}

func TestMultiFansOut(t *testing.T) {
	var seen []string
	record := func(prefix string) Notifier {
		return Func(func(_ context.Context, n Notification) { seen = append(seen, prefix+n.Title) })
	}
	Multi(record("1:"), record("2:")).Notify(context.Background(), Notification{Title: "x"})
	assert.Equal(t, []string{"1:x", "2:x"}, seen)
}
