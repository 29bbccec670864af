// SPDX-License-Identifier: GPL-3.0-or-later
package classifier

import (
	"github.com/CrawX/go-contact-classifier/domain"
	"github.com/CrawX/go-contact-classifier/matcher"
)

const (
	CategoryReferralPartner = "referral_partner"
	CategoryClient          = "client"
	CategoryVendor          = "vendor"
	CategoryPersonal        = "personal"
)

// DefaultCategories returns the built-in relationship categories. The order is the
// tie-break order.
func DefaultCategories() domain.CategorySet {
	set, err := domain.NewCategorySet(
		domain.CategoryDefinition{
			ID:    CategoryReferralPartner,
			Label: "Referral partner",
			Subject: domain.PatternClass{Weight: 15, Matchers: matcher.MustPatterns(
				`client scenario`,
				`\breferr?al\b`,
				`\bpre-?approv`,
				`\bloan (?:scenario|file|status)\b`,
				`\bescrow\b`,
				`\bclosing (?:date|disclosure)\b`,
				`\bborrowers?\b`,
			)},
			Body: domain.PatternClass{Weight: 10, Matchers: matcher.MustPatterns(
				`\bi have a (?:client|buyer|borrower)\b`,
				`\bmy (?:clients?|buyers?|borrowers?)\b`,
				`\b(?:referring|referred)\b`,
				`\brate lock\b`,
				`\bunderwrit`,
				`\blisting agent\b`,
			)},
			Signature: domain.PatternClass{Weight: 20, Matchers: matcher.MustPatterns(
				`\bnmls\b`,
				`\b(?:dre|calbre)\b`,
				`\brealtor\b`,
				`\bloan officer\b`,
				`\bmortgage (?:broker|advisor|consultant|banker)\b`,
				`\breal estate (?:agent|broker)\b`,
				`\bbroker associate\b`,
			)},
		},
		domain.CategoryDefinition{
			ID:    CategoryClient,
			Label: "Client",
			Subject: domain.PatternClass{Weight: 15, Matchers: matcher.MustPatterns(
				`\bmy (?:loan|application|mortgage)\b`,
				`\bpre-?qualif`,
				`\brefinanc`,
				`\bmortgage (?:rate|payment|application)s?\b`,
				`\bdocuments? (?:request|needed|attached)\b`,
			)},
			Body: domain.PatternClass{Weight: 10, Matchers: matcher.MustPatterns(
				`\bmy (?:loan|application|mortgage|house|home)\b`,
				`\bpay ?stubs?\b`,
				`\bw-?2s?\b`,
				`\bbank statements?\b`,
				`\bdown payment\b`,
				`\bwe (?:want|would like) to (?:buy|refinance)\b`,
			)},
			Signature: domain.PatternClass{Weight: 5, Matchers: matcher.MustPatterns(
				`\bsent from my (?:iphone|ipad|android|phone)\b`,
			)},
		},
		domain.CategoryDefinition{
			ID:    CategoryVendor,
			Label: "Vendor",
			Subject: domain.PatternClass{Weight: 15, Matchers: matcher.MustPatterns(
				`\binvoice\b`,
				`\b(?:quote|proposal|estimate)\b`,
				`\bsubscription\b`,
				`\brenewal\b`,
				`\bpurchase order\b`,
				`\bdemo\b`,
			)},
			Body: domain.PatternClass{Weight: 10, Matchers: matcher.MustPatterns(
				`\binvoice\b`,
				`\bpayment (?:is )?due\b`,
				`\bour (?:services|platform|product|software)\b`,
				`\bunsubscribe\b`,
				`\bpricing\b`,
			)},
			Signature: domain.PatternClass{Weight: 15, Matchers: matcher.MustPatterns(
				`\baccount (?:executive|manager)\b`,
				`\bcustomer success\b`,
				`\bsales\b`,
				`\bsupport team\b`,
				`\b(?:inc|llc|ltd|corp)\b`,
			)},
		},
		domain.CategoryDefinition{
			ID:    CategoryPersonal,
			Label: "Personal",
			Subject: domain.PatternClass{Weight: 15, Matchers: matcher.MustPatterns(
				`\b(?:birthday|dinner|lunch|weekend|vacation|party|bbq)\b`,
				`\bfamily\b`,
				`\bhappy (?:holidays|thanksgiving|new year)\b`,
			)},
			Body: domain.PatternClass{Weight: 10, Matchers: matcher.MustPatterns(
				`\blove you\b`,
				`\b(?:mom|dad|grandma|grandpa|honey)\b`,
				`\bsee you (?:soon|tonight|tomorrow)\b`,
				`\bmiss you\b`,
				`\bthe kids\b`,
			)},
			Signature: domain.PatternClass{Weight: 5, Matchers: matcher.MustPatterns(
				`\bxo+\b`,
				`\bhugs\b`,
			)},
		},
	)
	if err != nil {
		panic(err)
	}
	return set
}
