package hash

import "testing"

func TestHMACSHA256HashAndVerify(t *testing.T) {
	h := NewHMACSHA256("signing-secret")

	digest, err := h.Hash(`{"contact_id":1}`)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if len(digest) == 0 {
		t.Fatal("expected non-empty digest")
	}

	if !h.Verify(string(digest), `{"contact_id":1}`) {
		t.Fatal("expected digest to verify")
	}
	if h.Verify(string(digest), `{"contact_id":2}`) {
		t.Fatal("different payload must not verify")
	}
}

func TestHMACSHA256DifferentSecrets(t *testing.T) {
	a := NewHMACSHA256("secret-a")
	b := NewHMACSHA256("secret-b")

	digest, err := a.Hash("payload")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if b.Verify(string(digest), "payload") {
		t.Fatal("digest signed with another secret must not verify")
	}
}
