package types

import (
	"fmt"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/teris-io/shortid"
)

// GenerateUUID returns a k-sortable unique identifier
func GenerateUUID() string {
	return ulid.Make().String()
}

// GenerateUUIDWithPrefix returns a k-sortable unique identifier
// with a prefix ex disc_0ujsswThIGTUYm2K8FjOOfXtY1K
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}

var (
	sidGenerator *shortid.Shortid
	once         sync.Once
)

// initializeSID initializes the shortid generator once
func initializeSID() {
	var err error
	sidGenerator, err = shortid.New(1, shortid.DefaultABC, 2342)
	if err != nil {
		panic("failed to initialize shortid generator: " + err.Error())
	}
}

// GenerateDiscountCode returns a short shopper-facing coupon code with an
// optional prefix, e.g. `SAVEXK7Q2M`. Total length is capped at 12 characters.
func GenerateDiscountCode(prefix string) string {
	once.Do(initializeSID)

	id, err := sidGenerator.Generate()
	if err != nil {
		return ""
	}
	id = strings.ReplaceAll(id, "-", "")

	availableLen := 12 - len(prefix)
	if availableLen <= 0 {
		return ""
	}

	if len(id) > availableLen {
		id = id[:availableLen]
	}

	return strings.ToUpper(fmt.Sprintf("%s%s", prefix, id))
}

const (
	UUID_PREFIX_ZONE           = "zone"
	UUID_PREFIX_DISCOUNT       = "disc"
	UUID_PREFIX_TAX_CATEGORY   = "taxcat"
	UUID_PREFIX_TAX_RATE       = "trate"
	UUID_PREFIX_SHIPPING_RATE  = "srate"
	UUID_PREFIX_EXCHANGE_RATE  = "fx"
	UUID_PREFIX_CART           = "cart"
	UUID_PREFIX_REDEMPTION     = "redm"
	UUID_PREFIX_PRICING_RESULT = "price"
)
