package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub() *NotificationHub {
	// Snapshot tidak disentuh di test ini - db nil aman.
	return NewNotificationHub(nil, time.Second)
}

func liveEvent(day string) LiveEvent {
	return LiveEvent{
		SessionID:    uuid.New(),
		EmployeeID:   uuid.New(),
		EmployeeName: "Budi",
		Day:          day,
	}
}

func TestHub_PublishScopedToDay(t *testing.T) {
	hub := newTestHub()

	subD := hub.Subscribe("2024-06-01")
	subD1 := hub.Subscribe("2024-06-02")

	ev := liveEvent("2024-06-01")
	hub.Publish(ev)

	select {
	case got := <-subD.Events():
		assert.Equal(t, ev.SessionID, got.SessionID)
	case <-time.After(time.Second):
		t.Fatal("subscriber hari D tidak menerima event")
	}

	select {
	case <-subD1.Events():
		t.Fatal("subscriber hari D+1 tidak boleh menerima event hari D")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_DeliveryInPublishOrder(t *testing.T) {
	hub := newTestHub()
	sub := hub.Subscribe("2024-06-01")

	events := make([]LiveEvent, 5)
	for i := range events {
		events[i] = liveEvent("2024-06-01")
		hub.Publish(events[i])
	}

	for i := range events {
		select {
		case got := <-sub.Events():
			assert.Equal(t, events[i].SessionID, got.SessionID, "urutan publish harus terjaga")
		case <-time.After(time.Second):
			t.Fatalf("event ke-%d tidak terkirim", i)
		}
	}
}

func TestHub_SlowSubscriberDoesNotBlockPublisher(t *testing.T) {
	hub := newTestHub()
	_ = hub.Subscribe("2024-06-01") // tidak pernah dibaca

	done := make(chan struct{})
	go func() {
		// Lebih banyak dari kapasitas buffer: harus drop, bukan blok.
		for i := 0; i < subscriberBuffer*2; i++ {
			hub.Publish(liveEvent("2024-06-01"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publisher terblokir oleh subscriber lambat")
	}
}

func TestHub_DropForOneSubscriberDoesNotAffectOthers(t *testing.T) {
	hub := newTestHub()
	stuck := hub.Subscribe("2024-06-01") // buffer dibiarkan penuh
	healthy := hub.Subscribe("2024-06-01")

	for i := 0; i < subscriberBuffer+5; i++ {
		hub.Publish(liveEvent("2024-06-01"))
		// healthy terus dibaca, stuck tidak
		select {
		case <-healthy.Events():
		case <-time.After(time.Second):
			t.Fatal("subscriber sehat kehilangan event gara-gara subscriber macet")
		}
	}
	_ = stuck
}

func TestHub_Resubscribe(t *testing.T) {
	hub := newTestHub()
	sub := hub.Subscribe("2024-06-01")

	hub.Resubscribe(sub, "2024-06-02")

	assert.Equal(t, 0, hub.SubscriberCount("2024-06-01"))
	assert.Equal(t, 1, hub.SubscriberCount("2024-06-02"))

	hub.Publish(liveEvent("2024-06-02"))
	select {
	case got := <-sub.Events():
		assert.Equal(t, "2024-06-02", got.Day)
	case <-time.After(time.Second):
		t.Fatal("subscriber tidak menerima event topic baru")
	}

	// Topic lama tidak mengirim lagi.
	hub.Publish(liveEvent("2024-06-01"))
	select {
	case got := <-sub.Events():
		t.Fatalf("menerima event topic lama: %s", got.Day)
	case <-time.After(50 * time.Millisecond):
	}
}

// Loop pembaca SSE memanggil sub.Day() terus-menerus sementara handler bisa
// memindahkan subscriber ke hari lain; keduanya harus aman berjalan bersamaan
// (jalankan dengan -race).
func TestHub_DayReadSafeDuringResubscribe(t *testing.T) {
	hub := newTestHub()
	sub := hub.Subscribe("2024-06-01")

	stop := make(chan struct{})
	seen := make(chan string, 1)
	go func() {
		last := ""
		for {
			select {
			case <-stop:
				seen <- last
				return
			default:
				last = sub.Day()
			}
		}
	}()

	for i := 0; i < 200; i++ {
		if i%2 == 0 {
			hub.Resubscribe(sub, "2024-06-02")
		} else {
			hub.Resubscribe(sub, "2024-06-01")
		}
	}
	hub.Resubscribe(sub, "2024-06-02")
	close(stop)

	assert.Contains(t, []string{"2024-06-01", "2024-06-02"}, <-seen)
	assert.Equal(t, "2024-06-02", sub.Day())
	assert.Equal(t, 1, hub.SubscriberCount("2024-06-02"))
	assert.Equal(t, 0, hub.SubscriberCount("2024-06-01"))
}

func TestHub_UnsubscribeIdempotent(t *testing.T) {
	hub := newTestHub()
	sub := hub.Subscribe("2024-06-01")

	require.Equal(t, 1, hub.SubscriberCount("2024-06-01"))

	hub.Unsubscribe(sub)
	hub.Unsubscribe(sub) // kedua kali: no-op, tanpa panic

	assert.Equal(t, 0, hub.SubscriberCount("2024-06-01"))

	// Publish ke topic tanpa subscriber juga aman.
	hub.Publish(liveEvent("2024-06-01"))
}
