package actorctx

import (
	"context"
	"testing"
)

func TestUserIDRoundTrip(t *testing.T) {
	if _, ok := UserIDFrom(context.Background()); ok {
		t.Fatalf("empty context should carry no actor")
	}

	ctx := WithUserID(context.Background(), "u-1")
	if id, ok := UserIDFrom(ctx); !ok || id != "u-1" {
		t.Fatalf("got %q %v", id, ok)
	}

	if _, ok := UserIDFrom(WithUserID(context.Background(), "")); ok {
		t.Fatalf("blank id should not count as an actor")
	}
}
