package password

import (
	"errors"
	"strings"
	"testing"
)

// cheap parameters keep the tests fast
func testHasher() *Hasher {
	return NewHasher(Params{Time: 1, Memory: 1024, Threads: 1})
}

func TestHasher_HashAndVerify(t *testing.T) {
	h := testHasher()

	encoded, err := h.Hash("hunter2")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$v=19$m=1024,t=1,p=1$") {
		t.Errorf("Hash() = %q, unexpected prefix", encoded)
	}
	if strings.Contains(encoded, "hunter2") {
		t.Error("hash contains the plaintext password")
	}

	ok, err := h.Verify("hunter2", encoded)
	if err != nil || !ok {
		t.Errorf("Verify(correct) = (%v, %v)", ok, err)
	}

	ok, err = h.Verify("hunter3", encoded)
	if err != nil || ok {
		t.Errorf("Verify(wrong) = (%v, %v)", ok, err)
	}
}

func TestHasher_SaltedHashesDiffer(t *testing.T) {
	h := testHasher()
	a, _ := h.Hash("same")
	b, _ := h.Hash("same")
	if a == b {
		t.Error("two hashes of the same password should differ")
	}
}

func TestHasher_EmptyPassword(t *testing.T) {
	h := testHasher()

	encoded, err := h.Hash("")
	if err != nil {
		t.Fatalf("Hash(\"\") error = %v", err)
	}
	if ok, _ := h.Verify("", encoded); !ok {
		t.Error("empty password should verify against its own hash")
	}
	if ok, _ := h.Verify("x", encoded); ok {
		t.Error("non-empty password should not match empty hash")
	}
}

func TestHasher_VerifyUsesStoredParams(t *testing.T) {
	encoded, _ := NewHasher(Params{Time: 2, Memory: 2048, Threads: 2}).Hash("pw")

	ok, err := testHasher().Verify("pw", encoded)
	if err != nil || !ok {
		t.Errorf("Verify() = (%v, %v), want true", ok, err)
	}
}

func TestHasher_InvalidHash(t *testing.T) {
	h := testHasher()

	tests := []struct {
		name    string
		encoded string
	}{
		{"empty", ""},
		{"plaintext", "hunter2"},
		{"bcrypt", "$2a$10$abcdefghijklmnopqrstuv"},
		{"bad version", "$argon2id$v=x$m=1024,t=1,p=1$c2FsdA$a2V5"},
		{"other version", "$argon2id$v=16$m=1024,t=1,p=1$c2FsdA$a2V5"},
		{"bad params", "$argon2id$v=19$m=,t=1$c2FsdA$a2V5"},
		{"zero threads", "$argon2id$v=19$m=1024,t=1,p=0$c2FsdA$a2V5"},
		{"zero iterations", "$argon2id$v=19$m=1024,t=0,p=1$c2FsdHNhbHQ$a2V5a2V5a2V5"},
		{"zero memory", "$argon2id$v=19$m=0,t=1,p=1$c2FsdHNhbHQ$a2V5a2V5a2V5"},
		{"memory over cap", "$argon2id$v=19$m=4194305,t=1,p=1$c2FsdHNhbHQ$a2V5a2V5a2V5"},
		{"bad salt", "$argon2id$v=19$m=1024,t=1,p=1$!!!$a2V5"},
		{"empty key", "$argon2id$v=19$m=1024,t=1,p=1$c2FsdA$"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := h.Verify("pw", tt.encoded)
			if ok {
				t.Error("Verify() = true for invalid hash")
			}
			if !errors.Is(err, ErrInvalidHash) {
				t.Errorf("Verify() error = %v, want ErrInvalidHash", err)
			}
		})
	}
}

func TestNewHasher_Defaults(t *testing.T) {
	h := NewHasher(Params{})
	if h.params != DefaultParams() {
		t.Errorf("params = %+v, want defaults", h.params)
	}
}
