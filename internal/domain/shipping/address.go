package shipping

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Address is a delivery destination. It has no lifecycle of its own and is
// embedded in orders.
type Address struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Ward     string `json:"ward"`
	District string `json:"district"`
	City     string `json:"city"`
}

// ValidationResult lists every failed check in a fixed order.
type ValidationResult struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

const (
	MsgInvalidName     = "Họ tên phải có ít nhất 2 ký tự"
	MsgInvalidPhone    = "Số điện thoại không hợp lệ"
	MsgInvalidAddress  = "Địa chỉ phải có ít nhất 10 ký tự"
	MsgInvalidWard     = "Vui lòng nhập phường/xã"
	MsgInvalidDistrict = "Vui lòng nhập quận/huyện"
	MsgInvalidCity     = "Vui lòng nhập tỉnh/thành phố"
)

// Vietnamese mobile numbers: 0 or +84, a 3/5/7/8/9 network prefix, 8 digits.
var phonePattern = regexp.MustCompile(`^(0|\+84)(3|5|7|8|9)[0-9]{8}$`)

// ValidateShippingAddress checks field presence and minimum lengths. It
// never fails; problems are reported in the result.
func ValidateShippingAddress(addr Address) ValidationResult {
	errs := make([]string, 0)

	if !minRunes(addr.Name, 2) {
		errs = append(errs, MsgInvalidName)
	}
	if !ValidPhone(addr.Phone) {
		errs = append(errs, MsgInvalidPhone)
	}
	if !minRunes(addr.Address, 10) {
		errs = append(errs, MsgInvalidAddress)
	}
	if !minRunes(addr.Ward, 2) {
		errs = append(errs, MsgInvalidWard)
	}
	if !minRunes(addr.District, 2) {
		errs = append(errs, MsgInvalidDistrict)
	}
	if !minRunes(addr.City, 2) {
		errs = append(errs, MsgInvalidCity)
	}

	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

// ValidPhone reports whether phone is a Vietnamese mobile number. Spaces
// are ignored.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(strings.ReplaceAll(phone, " ", ""))
}

func minRunes(s string, n int) bool {
	return utf8.RuneCountInString(strings.TrimSpace(s)) >= n
}
