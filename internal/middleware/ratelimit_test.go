package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLoginLimiter_BlocksAfterMax(t *testing.T) {
	l := NewLoginLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Allow("1.2.3.4") {
			t.Fatalf("попытка %d должна проходить", i+1)
		}
	}
	if l.Allow("1.2.3.4") {
		t.Fatal("четвёртая попытка должна блокироваться")
	}
	// другой IP не задет
	if !l.Allow("5.6.7.8") {
		t.Fatal("лимит не должен распространяться на другие IP")
	}
}

func TestLoginLimiter_WindowExpires(t *testing.T) {
	l := NewLoginLimiter(1, 30*time.Millisecond)

	if !l.Allow("1.2.3.4") {
		t.Fatal("первая попытка должна проходить")
	}
	if l.Allow("1.2.3.4") {
		t.Fatal("вторая попытка в окне должна блокироваться")
	}
	time.Sleep(50 * time.Millisecond)
	if !l.Allow("1.2.3.4") {
		t.Fatal("после окна попытки должны проходить")
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	if got := ClientIP(r); got != "10.0.0.1" {
		t.Fatalf("ожидался 10.0.0.1, получено %q", got)
	}

	r.Header.Set("X-Real-IP", "2.2.2.2")
	if got := ClientIP(r); got != "2.2.2.2" {
		t.Fatalf("ожидался 2.2.2.2, получено %q", got)
	}

	// X-Forwarded-For приоритетнее, берётся первый адрес
	r.Header.Set("X-Forwarded-For", "3.3.3.3, 4.4.4.4")
	if got := ClientIP(r); got != "3.3.3.3" {
		t.Fatalf("ожидался 3.3.3.3, получено %q", got)
	}
}
