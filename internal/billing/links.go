package billing

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// DefaultCountryCode is prefixed to bare 10-digit mobile numbers.
const DefaultCountryCode = "91"

// NormalizeMobile strips every non-digit and prefixes the country code to 10-digit numbers.
func NormalizeMobile(mobile string) string {
	var b strings.Builder
	for _, r := range mobile {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 10 {
		return DefaultCountryCode + digits
	}
	return digits
}

// ReminderLink builds a WhatsApp link that pre-fills a due-date reminder.
// Returns "" when the mobile number has no digits.
func ReminderLink(residentName, mobile, hostelName string, snap Snapshot) string {
	number := NormalizeMobile(mobile)
	if number == "" {
		return ""
	}

	nextBill := "not yet billed"
	if snap.NextDueDate != nil {
		nextBill = snap.NextDueDate.Format("2 Jan")
	}

	message := fmt.Sprintf(
		"Hello %s,\nReminder from %s:\nNext Bill Date: %s\nDays Remaining: %d\nPlease clear your dues on time.",
		residentName, hostelName, nextBill, snap.DaysRemaining,
	)

	// wa.me shows "+" literally, so spaces are sent as %20
	return "https://wa.me/" + number + "?text=" + strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
}

// UPILink builds a UPI deep link for paying amount to upiID.
// Returns "" when the hostel has no UPI id.
func UPILink(upiID, payeeName string, amount int64) string {
	upiID = strings.TrimSpace(upiID)
	if upiID == "" {
		return ""
	}
	q := url.Values{}
	q.Set("pa", upiID)
	q.Set("pn", strings.ReplaceAll(payeeName, " ", ""))
	q.Set("am", strconv.FormatInt(amount, 10))
	q.Set("cu", "INR")
	return "upi://pay?" + q.Encode()
}
