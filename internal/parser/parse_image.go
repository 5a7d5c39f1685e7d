package parser

import (
	"encoding/base64"
	"fmt"
)

// ParseImageLoad parses an image load payload into the image name and
// raw encoded bytes. Input: ["plan.png","<base64 data>"].
func (p *Parser) ParseImageLoad(data []string) (name string, raw []byte, err error) {
	data = cleanArgs(data)
	if len(data) < 2 {
		return "", nil, fmt.Errorf("image payload needs name and data, got %d args", len(data))
	}

	name = data[0]
	if name == "" {
		return "", nil, fmt.Errorf("image name is empty")
	}

	raw, err = base64.StdEncoding.DecodeString(data[1])
	if err != nil {
		return "", nil, fmt.Errorf("error decoding image data: %w", err)
	}
	if len(raw) == 0 {
		return "", nil, fmt.Errorf("image data is empty")
	}
	return name, raw, nil
}
