package coursefs

import "strings"

// EncodeEmail converts a student email address into its filesystem-safe form
// by replacing every "@" and "." with "_", e.g. "jo.han@qq.com" becomes
// "jo_han_qq_com". The encoding is part of the on-disk submission contract.
func EncodeEmail(email string) string {
	replacer := strings.NewReplacer("@", "_", ".", "_")
	return replacer.Replace(email)
}

// DecodeEmail reverses EncodeEmail for a filename stem. The final two
// underscore-separated parts are taken as the domain and everything before
// them as the local part, so "2911247775_qq_com" decodes to
// "2911247775@qq.com" and "jo_hn_qq_com" to "jo_hn@qq.com".
//
// The encoding is lossy when the local part itself contained dots; the
// last-two-parts rule keeps underscored local parts attributable, which is the
// ambiguity that matters for grade attribution.
func DecodeEmail(stem string) string {
	parts := strings.Split(stem, "_")
	if len(parts) < 3 {
		if len(parts) == 2 {
			return parts[0] + "@" + parts[1]
		}
		return stem
	}

	local := strings.Join(parts[:len(parts)-2], "_")
	domain := strings.Join(parts[len(parts)-2:], ".")
	return local + "@" + domain
}
