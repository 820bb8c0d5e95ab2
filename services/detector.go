package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	"net/http"
	"sort"
	"sync"
	"time"

	"EmoTrackGo/config"
)

// DetectedFace 检测到的单张人脸及其情绪概率分布
type DetectedFace struct {
	Box      []int              `json:"box"`
	Emotions map[string]float64 `json:"emotions"`
}

// EmotionDetector 表情识别器接口
type EmotionDetector interface {
	DetectEmotions(ctx context.Context, frame image.Image) ([]DetectedFace, error)
}

// FERClient FER兼容识别服务的HTTP客户端
type FERClient struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

type detectRequest struct {
	Image string `json:"image"`
}

type detectResponse struct {
	Faces []DetectedFace `json:"faces"`
}

// NewFERClient 创建识别服务客户端并验证服务可达
func NewFERClient(endpoint, apiKey string) (*FERClient, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("未配置DETECTOR_ENDPOINT")
	}

	c := &FERClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 30 * time.Second},
	}

	req, err := http.NewRequest(http.MethodGet, endpoint+"/health", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("识别服务不可达: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("识别服务健康检查失败: %s", resp.Status)
	}

	return c, nil
}

// DetectEmotions 对单帧图像做人脸情绪识别
func (c *FERClient) DetectEmotions(ctx context.Context, frame image.Image) ([]DetectedFace, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("图像编码失败: %w", err)
	}

	body, err := json.Marshal(detectRequest{
		Image: base64.StdEncoding.EncodeToString(buf.Bytes()),
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/detect", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("识别请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("识别服务返回异常状态: %s", resp.Status)
	}

	var result detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("识别结果解析失败: %w", err)
	}
	return result.Faces, nil
}

// DominantScore 返回概率最高的情绪标签及其概率
// 概率相同时取字典序较小的标签，保证结果确定
func DominantScore(emotions map[string]float64) (string, float64) {
	labels := make([]string, 0, len(emotions))
	for label := range emotions {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var dominant string
	var best float64
	for i, label := range labels {
		if i == 0 || emotions[label] > best {
			dominant = label
			best = emotions[label]
		}
	}
	return dominant, best
}

// 进程级识别器单例，双重检查加锁，只缓存构造成功的实例
var (
	detectorMu sync.Mutex
	detector   *FERClient
)

// LoadDetectorOnce 获取进程级识别器实例，首次调用时构造
func LoadDetectorOnce(conf config.Config) (*FERClient, error) {
	detectorMu.Lock()
	defer detectorMu.Unlock()

	if detector != nil {
		return detector, nil
	}

	c, err := NewFERClient(conf.DetectorEndpoint, conf.DetectorAPIKey)
	if err != nil {
		return nil, err
	}
	detector = c
	config.Logger.Infow("表情识别客户端就绪", "endpoint", conf.DetectorEndpoint)
	return detector, nil
}

// LazyDetector 延迟到首次调用才构造单例的识别器
type LazyDetector struct {
	conf config.Config
}

func NewLazyDetector(conf config.Config) *LazyDetector {
	return &LazyDetector{conf: conf}
}

func (d *LazyDetector) DetectEmotions(ctx context.Context, frame image.Image) ([]DetectedFace, error) {
	c, err := LoadDetectorOnce(d.conf)
	if err != nil {
		return nil, err
	}
	return c.DetectEmotions(ctx, frame)
}
