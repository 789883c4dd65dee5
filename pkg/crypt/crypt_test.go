package crypt_test

import (
	"testing"

	"github.com/shashiranjanraj/campuseats/pkg/crypt"
)

func TestEncryptDecryptRoundtrip(t *testing.T) {
	plain := "order 42 belongs to user 7"

	encoded, err := crypt.Encrypt(plain)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if encoded == plain {
		t.Error("ciphertext must differ from plaintext")
	}

	decoded, err := crypt.Decrypt(encoded)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if decoded != plain {
		t.Errorf("roundtrip mismatch: got %q", decoded)
	}
}

func TestEncryptIsNonDeterministic(t *testing.T) {
	a, err := crypt.Encrypt("same input")
	if err != nil {
		t.Fatal(err)
	}
	b, err := crypt.Encrypt("same input")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("expected a fresh nonce per encryption")
	}
}

func TestDecryptRejectsTampering(t *testing.T) {
	encoded, err := crypt.Encrypt("secret")
	if err != nil {
		t.Fatal(err)
	}

	// Flip a character in the encoded payload.
	tampered := []byte(encoded)
	if tampered[len(tampered)-1] == 'A' {
		tampered[len(tampered)-1] = 'B'
	} else {
		tampered[len(tampered)-1] = 'A'
	}

	if _, err := crypt.Decrypt(string(tampered)); err == nil {
		t.Error("expected tampered ciphertext to fail authentication")
	}
}

func TestEncryptJSONRoundtrip(t *testing.T) {
	type payload struct {
		OrderID uint `json:"order_id"`
		UserID  uint `json:"user_id"`
	}

	encoded, err := crypt.EncryptJSON(payload{OrderID: 42, UserID: 7})
	if err != nil {
		t.Fatalf("encrypt json: %v", err)
	}

	var out payload
	if err := crypt.DecryptJSON(encoded, &out); err != nil {
		t.Fatalf("decrypt json: %v", err)
	}
	if out.OrderID != 42 || out.UserID != 7 {
		t.Errorf("roundtrip mismatch: %+v", out)
	}
}
