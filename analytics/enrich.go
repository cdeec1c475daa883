package analytics

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"lensfolio/api/models"
)

var (
	tabletKeywords = []string{"ipad", "tablet", "kindle", "silk", "playbook"}
	mobileKeywords = []string{"mobile", "iphone", "ipod", "android", "blackberry", "opera mini", "iemobile"}
)

// ClassifyDevice buckets a user agent by keyword. Tablets are checked first because
// many tablet agents also carry "android".
func ClassifyDevice(userAgent string) models.Device {
	ua := strings.ToLower(userAgent)
	for _, kw := range tabletKeywords {
		if strings.Contains(ua, kw) {
			return models.DeviceTablet
		}
	}
	for _, kw := range mobileKeywords {
		if strings.Contains(ua, kw) {
			return models.DeviceMobile
		}
	}
	return models.DeviceDesktop
}

// LookupCountry has no geolocation source behind it yet.
func LookupCountry(string) string {
	return models.UnknownCountry
}

// HashIP derives the stored visitor key. The raw address never leaves this function.
func HashIP(ip, salt string) string {
	mac := hmac.New(sha256.New, []byte(salt))
	mac.Write([]byte(ip))
	return hex.EncodeToString(mac.Sum(nil))
}
