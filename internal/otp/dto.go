package otp

// EmailRequest starts or repeats the forgot-password flow.
type EmailRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

type VerifyRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email,max=254"`
	OTP         string `json:"otp" validate:"required,len=6,numeric"`
	NewPassword string `json:"newPassword" validate:"required,min=6,max=128"`
}
