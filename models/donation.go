package models

import "time"

type DonationPurpose string

const (
	PurposeTithes   DonationPurpose = "tithes"
	PurposeOffering DonationPurpose = "offering"
	PurposeCharity  DonationPurpose = "charity"
	PurposeBuilding DonationPurpose = "building"
)

const (
	DonationCurrency   = "INR"
	AnonymousDonorName = "Anonymous"
)

var DonationPurposes = []DonationPurpose{PurposeTithes, PurposeOffering, PurposeCharity, PurposeBuilding}

// DonationPresetAmounts are the suggested amounts offered on the giving page,
// in rupees.
var DonationPresetAmounts = []int{500, 1000, 2000, 5000}

var purposeLabels = map[DonationPurpose]string{
	PurposeTithes:   "Tithes",
	PurposeOffering: "Offering",
	PurposeCharity:  "Charity / Outreach",
	PurposeBuilding: "Building Fund",
}

func (p DonationPurpose) Valid() bool {
	_, ok := purposeLabels[p]
	return ok
}

// Label is the display name shown on the confirmation view. Unknown purposes
// are shown as an offering.
func (p DonationPurpose) Label() string {
	if label, ok := purposeLabels[p]; ok {
		return label
	}
	return purposeLabels[PurposeOffering]
}

type Donation struct {
	Donation_ID string          `json:"donationId,omitempty"`
	Amount      float64         `json:"amount"`
	Purpose     DonationPurpose `json:"purpose"`
	Donor_Name  string          `json:"donorName"`
	Email       string          `json:"email"`
	Anonymous   bool            `json:"anonymous"`
	Payment_ID  string          `json:"paymentId"`
	Created_At  time.Time       `json:"createdAt"`
}

// DonationCheckout is the pledge form posted by the giving page. Amount is
// kept as entered.
type DonationCheckout struct {
	Amount     FormAmount `json:"amount"`
	Purpose    string     `json:"purpose"`
	Donor_Name string     `json:"donorName"`
	Email      string     `json:"email"`
	Anonymous  bool       `json:"anonymous"`
}

type DonationPaymentSuccess struct {
	Payment_ID string `json:"paymentId" binding:"required"`
	Order_ID   string `json:"orderId"`
	Signature  string `json:"signature"`
}

// DonationConfirmation carries the plain display parameters of the
// confirmation view. It is not a reference to the stored record.
type DonationConfirmation struct {
	Amount        float64         `json:"amount"`
	Purpose       DonationPurpose `json:"purpose"`
	Purpose_Label string          `json:"purposeLabel"`
}
