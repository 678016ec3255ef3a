package failure

import (
	"encoding/json"

	"github.com/lore-dev/lore/internal/loretypes"
)

func marshal(f *loretypes.Failure) ([]byte, error) {
	return json.Marshal(f)
}
