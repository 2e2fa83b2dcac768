package checkout

import (
	"fmt"
	"regexp"

	"cartscout/models"
	"cartscout/providers"
)

var (
	phoneRe   = regexp.MustCompile(`^[0-9]{10}$`)
	pincodeRe = regexp.MustCompile(`^[0-9]{6}$`)
	upiRe     = regexp.MustCompile(`^[a-zA-Z0-9._\-]{2,}@[a-zA-Z]{2,}$`)
	otpRe     = regexp.MustCompile(`^[0-9]+$`)
)

// validateInput checks a step submission locally. A non-empty return is the
// retry message shown to the user; no network call happens for invalid input.
func validateInput(desc providers.Descriptor, sess models.CheckoutSession, step models.Step, input map[string]string) string {
	switch step {
	case models.StepSelectProduct, models.StepViewDetails:
		return ""

	case models.StepAuthenticate:
		if !phoneRe.MatchString(input["phone"]) {
			return "Please enter a valid 10-digit phone number"
		}

	case models.StepVerifyOtp:
		otp := input["otp"]
		if len(otp) != desc.OTPLength || !otpRe.MatchString(otp) {
			return fmt.Sprintf("Please enter the %d-digit OTP", desc.OTPLength)
		}

	case models.StepChooseSize:
		size := input["size"]
		if size == "" {
			return "Please choose a size"
		}
		if len(sess.Data.SizesAvailable) > 0 && !contains(sess.Data.SizesAvailable, size) {
			return "Please choose one of the available sizes"
		}

	case models.StepChooseAddress:
		if sess.AddressMode == models.AddressModeSelect && input["addressId"] != "" {
			return ""
		}
		if input["name"] == "" && input["addressId"] == "" {
			// Re-submission after back-navigation: the previously entered
			// address is still on the session.
			if sess.Data.AddressID != "" || sess.Data.Address != nil {
				return ""
			}
		}
		if input["name"] == "" || input["line1"] == "" || input["city"] == "" {
			return "Please fill in name, address and city"
		}
		if !pincodeRe.MatchString(input["pincode"]) {
			return "Please enter a valid 6-digit pincode"
		}

	case models.StepPay:
		if !upiRe.MatchString(input["upiId"]) {
			return "Please enter a valid UPI ID (e.g. name@upi)"
		}
	}
	return ""
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
