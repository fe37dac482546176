package messageboard

import "testing"

type chatMessage struct {
	Text string
}

func TestSendDeliversInOrder(t *testing.T) {
	b := New()
	sub := Subscribe[chatMessage](b)

	Send(b, chatMessage{Text: "first"})
	Send(b, chatMessage{Text: "second"})

	first, ok := sub.Pop()
	if !ok || first.Text != "first" {
		t.Fatalf("got %+v, %v", first, ok)
	}
	second, ok := sub.Pop()
	if !ok || second.Text != "second" {
		t.Fatalf("got %+v, %v", second, ok)
	}
	if _, ok := sub.Pop(); ok {
		t.Fatal("expected queue to be empty")
	}
}

func TestLateSubscriberMissesEarlierMessages(t *testing.T) {
	b := New()
	Send(b, chatMessage{Text: "missed"})
	sub := Subscribe[chatMessage](b)
	Send(b, chatMessage{Text: "seen"})

	msg, ok := sub.Pop()
	if !ok || msg.Text != "seen" {
		t.Fatalf("got %+v, %v", msg, ok)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := New()
	sub := Subscribe[chatMessage](b)
	sub.Unsubscribe()
	Send(b, chatMessage{Text: "after unsubscribe"})
	if _, ok := sub.Pop(); ok {
		t.Fatal("expected no delivery after unsubscribe")
	}
}
