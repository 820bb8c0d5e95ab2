package controllers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"EmoTrackGo/models"
	"EmoTrackGo/services"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubDetector struct {
	faces []services.DetectedFace
	err   error
}

func (s *stubDetector) DetectEmotions(ctx context.Context, frame image.Image) ([]services.DetectedFace, error) {
	return s.faces, s.err
}

func detectRouter(detector services.EmotionDetector) http.Handler {
	r := newRouter()
	r.POST("/api/detect_emotion", NewDetectController(detector).DetectEmotion)
	return r
}

func frameDataURL(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: 120, G: 120, B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func postDetect(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/detect_emotion", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestDetectEmotionMissingImage(t *testing.T) {
	setupMockDB(t)
	w := postDetect(t, detectRouter(&stubDetector{}), `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No image received")
}

func TestDetectEmotionInvalidPayload(t *testing.T) {
	setupMockDB(t)
	w := postDetect(t, detectRouter(&stubDetector{}), `{"image":"data:image/png;base64,%%%%"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDetectEmotionNoFaceSkipsPersistence(t *testing.T) {
	mock := setupMockDB(t)
	w := postDetect(t, detectRouter(&stubDetector{faces: nil}),
		`{"image":"`+frameDataURL(t)+`"}`)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.DetectEmotionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp.Emotion)
	assert.Nil(t, resp.Confidence)
	assert.Equal(t, "No face detected", resp.Message)
	assert.NotEmpty(t, resp.Timestamp)

	// 未检测到人脸时不应写库
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDetectEmotionDominantOfFirstFace(t *testing.T) {
	mock := setupMockDB(t)
	detector := &stubDetector{faces: []services.DetectedFace{
		{Emotions: map[string]float64{"Happy": 0.92, "sad": 0.05, "angry": 0.03}},
		{Emotions: map[string]float64{"sad": 0.99}}, // 第二张人脸被忽略
	}}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `emotion_logs`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	w := postDetect(t, detectRouter(detector), `{"image":"`+frameDataURL(t)+`"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.DetectEmotionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Emotion)
	assert.Equal(t, "happy", *resp.Emotion)
	require.NotNil(t, resp.Confidence)
	assert.InDelta(t, 0.92, *resp.Confidence, 1e-9)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDetectEmotionPersistenceFailureStillSucceeds(t *testing.T) {
	mock := setupMockDB(t)
	detector := &stubDetector{faces: []services.DetectedFace{
		{Emotions: map[string]float64{"neutral": 0.8}},
	}}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `emotion_logs`").WillReturnError(gorm.ErrInvalidDB)
	mock.ExpectRollback()

	w := postDetect(t, detectRouter(detector), `{"image":"`+frameDataURL(t)+`"}`)

	// 落库失败被吞掉，响应仍然成功
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.DetectEmotionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Emotion)
	assert.Equal(t, "neutral", *resp.Emotion)
}

func TestDetectEmotionDetectorError(t *testing.T) {
	setupMockDB(t)
	w := postDetect(t, detectRouter(&stubDetector{err: assert.AnError}),
		`{"image":"`+frameDataURL(t)+`"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Server error")
}
