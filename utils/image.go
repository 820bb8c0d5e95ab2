package utils

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"
)

// DecodeDataURL 解码前端上传的图像data-URL
// 丢弃第一个逗号之前的媒体类型前缀，剩余部分按base64解码为位图
func DecodeDataURL(dataURL string) (image.Image, error) {
	encoded := dataURL
	if idx := strings.Index(dataURL, ","); idx >= 0 {
		encoded = dataURL[idx+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("无效的base64图像数据: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("图像解码失败: %w", err)
	}
	return img, nil
}
