package id

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var ErrUnsupported = errors.New("unsupported data")

// Telegram chat identifier.
type ChatID int64

// Storage key in "<namespace>;<name>" form.
type Key struct {
	Namespace string
	Name      string
}

func (id ChatID) String() string {
	return fmt.Sprintf("chat:%d", id)
}

// Parses "123", "-100123" or "chat:123".
func ParseChatID(raw string) (ChatID, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "chat:")

	chatID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, UnsupportedData([]byte(raw))
	}

	return ChatID(chatID), nil
}

func (key Key) String() string {
	return fmt.Sprintf("%s;%s", key.Namespace, key.Name)
}

func UnsupportedData(data []byte) error {
	return errors.WithMessagef(ErrUnsupported, "%q unsupported", data)
}
