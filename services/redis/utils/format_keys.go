package utils

/**
 * This file contains utility functions to format the keys for Redis
 * (key, value) pairs. It avoids having to call "fmt.Sprintf(...)"
 * with the same format spec every time, potentially confusing the key format.
 */

import "fmt"

func FormatInviteTokenKey(token string) string {
	return fmt.Sprintf("invite_token:%s", token)
}

func FormatGuestSessionKey(nonce string) string {
	return fmt.Sprintf("guest_session:%s", nonce)
}
