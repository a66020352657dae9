package billing

// FallbackFee applies when neither the resident nor the hostel sets a fee.
const FallbackFee int64 = 3000

// ResolveFee picks the resident override, then the hostel default, then FallbackFee.
// Zero and negative values count as unset.
func ResolveFee(override, hostelDefault *int64) int64 {
	if override != nil && *override > 0 {
		return *override
	}
	if hostelDefault != nil && *hostelDefault > 0 {
		return *hostelDefault
	}
	return FallbackFee
}
