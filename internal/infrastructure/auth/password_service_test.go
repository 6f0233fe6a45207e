package auth

import "testing"

func TestPasswordService_HashAndVerify(t *testing.T) {
	svc := NewPasswordService()

	hash, err := svc.Hash("correct-horse")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "correct-horse" {
		t.Fatal("password stored in the clear")
	}

	tests := []struct {
		name     string
		hash     string
		password string
		want     bool
	}{
		{name: "correct password", hash: hash, password: "correct-horse", want: true},
		{name: "wrong password", hash: hash, password: "battery-staple", want: false},
		{name: "malformed hash", hash: "not-a-bcrypt-hash", password: "correct-horse", want: false},
		{name: "empty hash", hash: "", password: "correct-horse", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.Verify(tt.hash, tt.password); got != tt.want {
				t.Errorf("Verify() = %v, want %v", got, tt.want)
			}
		})
	}
}
