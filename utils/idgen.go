// utils/idgen.go
package utils

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// GenerateTransactionID produces a human-shareable support reference of the
// form PREFIX-TIMESTAMP36-RAND4: the current Unix millisecond count in
// upper-case base 36, plus a 4-character random base-36 suffix so rapid
// calls within the same millisecond stay distinct.
//
// Not cryptographically secure and not globally unique — it is a support
// reference, not a reconciliation key.
func GenerateTransactionID(prefix string) string {
	if prefix == "" {
		prefix = "TRX"
	}

	timestamp := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))

	const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = alphabet[rand.Intn(len(alphabet))]
	}

	return prefix + "-" + timestamp + "-" + string(suffix)
}
