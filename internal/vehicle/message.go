package vehicle

import (
	"fmt"
	"strings"
)

type messageLine struct {
	english string
	hindi   string
	value   string
	hindiOK string
	hindiNo string
	ok      bool
}

// WhatsappText formats a verification as the bilingual block sent to drivers and owners.
func WhatsappText(v *Verification) string {
	d := v.Details

	lines := []messageLine{
		{"Permit", "परमिट", d.Permit, "एक्टिव", "निष्क्रिय", d.Permit == "Active"},
		{"Driver License", "ड्राइवर लाइसेंस", d.DriverLicense, "उपलब्ध", "अनुपलब्ध", d.DriverLicense == "Available"},
		{"Vehicle Condition", "गाड़ी की स्थिति", d.VehicleCondition, "ठीक", "खराब", d.VehicleCondition == "OK"},
		{"Challan", "चालान", d.Challan, "कोई चालान नहीं", "चालान मौजूद", d.Challan == "No Challan"},
		{"EMI", "ईएमआई", d.EMI, "समय पर भुगतान", "बकाया", d.EMI == "Paid"},
		{"Vehicle Fitness", "गाड़ी फिटनेस", d.Fitness, "फिट", "अनफिट", d.Fitness == "Fit"},
		{"Claim History", "क्लेम इतिहास", d.Claim, "कोई क्लेम नहीं", "क्लेम दर्ज है", d.Claim == NoClaim},
	}

	var b strings.Builder

	for _, l := range lines {
		fmt.Fprintf(&b, "%s – %s\n", l.english, l.value)
		fmt.Fprintf(&b, "%s – %s\n\n", l.hindi, label(l.ok, l.hindiOK, l.hindiNo))
	}

	mark := label(v.Verified, "✅", "❌")

	fmt.Fprintf(&b, "%s You %s **MandiPlus Verified Vehicle**\n", mark, label(v.Verified, "can take", "cannot take"))
	fmt.Fprintf(&b, "%s आप **MandiPlus सत्यापित वाहन**%s ले सकते हैं", mark, label(v.Verified, "", " नहीं"))

	return b.String()
}
