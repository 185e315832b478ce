package hub

import (
	"crypto/rand"
	"math/big"
)

const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const codeLength = 6

func generateCode() string {
	code := make([]byte, codeLength)
	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeCharset))))
		if err != nil {
			panic(err)
		}
		code[i] = codeCharset[num.Int64()]
	}
	return string(code)
}

// newCode returns a code unused by any live room. Codes may be reused after a
// room is deleted.
func (h *Hub) newCode() string {
	for {
		code := generateCode()
		if _, exists := h.rooms[code]; !exists {
			return code
		}
		h.log.Debug("room code collision, regenerating")
	}
}
