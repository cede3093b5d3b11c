package models

import "time"

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

func (s VerificationStatus) Valid() bool {
	return s == VerificationPending || s == VerificationApproved || s == VerificationRejected
}

// VerificationRequest is an agent's application to become a verified agent.
// Document fields are URLs to files uploaded elsewhere.
type VerificationRequest struct {
	ID                 string             `bson:"_id" json:"id"`
	UserID             string             `bson:"userId" json:"userId"`
	CompanyName        string             `bson:"companyName" json:"companyName"`
	LicenseNumber      string             `bson:"licenseNumber" json:"licenseNumber"`
	YearsExperience    int                `bson:"yearsExperience" json:"yearsExperience"`
	Specialization     string             `bson:"specialization" json:"specialization"`
	IDDocumentURL      string             `bson:"idDocumentUrl" json:"idDocumentUrl"`
	LicenseDocumentURL string             `bson:"licenseDocumentUrl" json:"licenseDocumentUrl"`
	Status             VerificationStatus `bson:"status" json:"status"`
	ReviewedBy         string             `bson:"reviewedBy,omitempty" json:"reviewedBy,omitempty"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	DecidedAt          *time.Time         `bson:"decidedAt,omitempty" json:"decidedAt,omitempty"`
}
