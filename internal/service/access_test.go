package service

import (
	"testing"

	"github.com/bigkaa/gofilehub/internal/domain/model"
)

// TestCanRead проверяет матрицу доступа на чтение.
func TestCanRead(t *testing.T) {
	tests := []struct {
		name     string
		isPublic bool
		owner    string
		userID   string
		want     bool
	}{
		{"публичный файл анонимно", true, "owner", "", true},
		{"публичный файл чужим пользователем", true, "owner", "stranger", true},
		{"публичный файл владельцем", true, "owner", "owner", true},
		{"приватный файл анонимно", false, "owner", "", false},
		{"приватный файл чужим пользователем", false, "owner", "stranger", false},
		{"приватный файл владельцем", false, "owner", "owner", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &model.FileRecord{UserID: tt.owner, IsPublic: tt.isPublic}
			if got := CanRead(rec, tt.userID); got != tt.want {
				t.Errorf("CanRead = %v, ожидалось %v", got, tt.want)
			}
		})
	}
}

// TestCanRead_AnonymousNeverMatchesEmptyOwner проверяет, что пустой
// userID не совпадает с владельцем даже при дефектной записи.
func TestCanRead_AnonymousNeverMatchesEmptyOwner(t *testing.T) {
	rec := &model.FileRecord{UserID: "", IsPublic: false}
	if CanRead(rec, "") {
		t.Error("анонимный запрос прошёл проверку владельца по пустой строке")
	}
}

// TestCanWrite проверяет, что изменение доступно только владельцу.
func TestCanWrite(t *testing.T) {
	rec := &model.FileRecord{UserID: "owner", IsPublic: true}

	if !CanWrite(rec, "owner") {
		t.Error("владелец не прошёл проверку на запись")
	}
	if CanWrite(rec, "stranger") {
		t.Error("чужой пользователь прошёл проверку на запись")
	}
	if CanWrite(rec, "") {
		t.Error("анонимный запрос прошёл проверку на запись")
	}
}
