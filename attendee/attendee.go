// Package attendee implements the internal attendee email convention:
// addresses of the form tg_<telegram_id>@televent.internal identify
// platform users, so the mail interceptor can route their invitations
// to Telegram notifications instead of SMTP.
package attendee

import (
	"fmt"
	"strconv"
	"strings"
)

// InternalDomain is the email domain reserved for platform users.
const InternalDomain = "televent.internal"

// InternalEmail is a value object wrapping the Telegram id an internal
// address encodes.
type InternalEmail struct {
	telegramID int64
}

// NewInternalEmail builds the internal address for a Telegram id.
func NewInternalEmail(telegramID int64) InternalEmail {
	return InternalEmail{telegramID: telegramID}
}

// TelegramID returns the encoded Telegram id.
func (e InternalEmail) TelegramID() int64 { return e.telegramID }

func (e InternalEmail) String() string {
	return fmt.Sprintf("tg_%d@%s", e.telegramID, InternalDomain)
}

// Parse extracts the Telegram id from an internal address. ok is false
// for external addresses and for malformed internal ones.
func Parse(email string) (InternalEmail, bool) {
	local, ok := strings.CutSuffix(email, "@"+InternalDomain)
	if !ok {
		return InternalEmail{}, false
	}
	idStr, ok := strings.CutPrefix(local, "tg_")
	if !ok || idStr == "" {
		return InternalEmail{}, false
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return InternalEmail{}, false
	}
	return InternalEmail{telegramID: id}, true
}

// IsInternal reports whether the address belongs to the internal
// domain, regardless of whether it parses.
func IsInternal(email string) bool {
	return strings.HasSuffix(email, "@"+InternalDomain)
}
