package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"convert-service/ddd/domain/gateway"
	"convert-service/ddd/domain/vo"
	"convert-service/pkg/config"
	"convert-service/pkg/errno"
	"convert-service/pkg/logger"
)

// FFmpegProcessor implements gateway.MediaProcessor with local ffmpeg/ffprobe
// binaries. Inputs referenced by object key are pulled through the storage
// gateway into the temp dir first; every produced stream is a self-deleting
// temp file.
type FFmpegProcessor struct {
	cfg     config.FFmpegConfig
	storage gateway.StorageGateway
}

// NewFFmpegProcessor 创建ffmpeg处理器
func NewFFmpegProcessor(cfg config.FFmpegConfig, storage gateway.StorageGateway) gateway.MediaProcessor {
	return &FFmpegProcessor{cfg: cfg, storage: storage}
}

func (p *FFmpegProcessor) ffmpegBin() string {
	if p.cfg.BinaryPath != "" {
		return p.cfg.BinaryPath
	}
	return "ffmpeg"
}

func (p *FFmpegProcessor) ffprobeBin() string {
	if p.cfg.ProbePath != "" {
		return p.cfg.ProbePath
	}
	return "ffprobe"
}

func (p *FFmpegProcessor) tempDir() string {
	if p.cfg.TempDir != "" {
		return p.cfg.TempDir
	}
	return os.TempDir()
}

func (p *FFmpegProcessor) commandContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.cfg.Timeout > 0 {
		return context.WithTimeout(ctx, p.cfg.Timeout)
	}
	return context.WithCancel(ctx)
}

// Probe 探测对象的时长与流布局
func (p *FFmpegProcessor) Probe(ctx context.Context, objectKey string) (*gateway.MediaInfo, error) {
	localPath, cleanup, err := p.fetchToTemp(ctx, objectKey)
	if err != nil {
		return nil, err
	}
	defer cleanup()
	return p.probeFile(ctx, localPath)
}

// ExtractTracks 抽取全部内嵌视频轨道，逐轨道流拷贝到独立容器
func (p *FFmpegProcessor) ExtractTracks(ctx context.Context, objectKey string) ([]gateway.TrackStream, error) {
	return p.extractStreams(ctx, objectKey, func(s vo.MediaStream) bool { return s.IsVideo() }, p.demuxTrack)
}

// ExtractSubtitles 抽取全部内嵌字幕流，统一转成SubRip文本
func (p *FFmpegProcessor) ExtractSubtitles(ctx context.Context, objectKey string) ([]gateway.TrackStream, error) {
	return p.extractStreams(ctx, objectKey, func(s vo.MediaStream) bool { return s.IsSubtitle() }, p.demuxSubtitle)
}

func (p *FFmpegProcessor) extractStreams(
	ctx context.Context,
	objectKey string,
	match func(vo.MediaStream) bool,
	demux func(ctx context.Context, localPath string, streamIndex int) (string, error),
) ([]gateway.TrackStream, error) {
	localPath, cleanup, err := p.fetchToTemp(ctx, objectKey)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	info, err := p.probeFile(ctx, localPath)
	if err != nil {
		return nil, err
	}

	var extracted []gateway.TrackStream
	closeAll := func() {
		for _, t := range extracted {
			_ = t.Stream.Close()
		}
	}

	for _, s := range info.Streams {
		if !match(s) {
			continue
		}
		outPath, err := demux(ctx, localPath, s.Index)
		if err != nil {
			closeAll()
			return nil, err
		}
		stream, err := openSelfDeleting(outPath)
		if err != nil {
			closeAll()
			return nil, errno.ErrProcessorOperation
		}
		extracted = append(extracted, gateway.TrackStream{Language: s.LanguageOrDefault(), Stream: stream})
	}
	return extracted, nil
}

// demuxTrack 流拷贝单条视频轨到matroska容器
func (p *FFmpegProcessor) demuxTrack(ctx context.Context, localPath string, streamIndex int) (string, error) {
	outPath := filepath.Join(p.tempDir(), fmt.Sprintf("track_%s_%d.mkv", randomSuffix(), streamIndex))
	args := []string{
		"-y", "-i", localPath,
		"-map", "0:" + strconv.Itoa(streamIndex),
		"-c", "copy",
		"-f", "matroska",
		outPath,
	}
	return outPath, p.runFFmpeg(ctx, args, outPath)
}

// demuxSubtitle 单条字幕流转成SubRip文本
func (p *FFmpegProcessor) demuxSubtitle(ctx context.Context, localPath string, streamIndex int) (string, error) {
	outPath := filepath.Join(p.tempDir(), fmt.Sprintf("subtitle_%s_%d.srt", randomSuffix(), streamIndex))
	args := []string{
		"-y", "-i", localPath,
		"-map", "0:" + strconv.Itoa(streamIndex),
		"-f", "srt",
		outPath,
	}
	return outPath, p.runFFmpeg(ctx, args, outPath)
}

// ConvertToMP4 转码为网页可播放的MP4
func (p *FFmpegProcessor) ConvertToMP4(ctx context.Context, r io.Reader, sourceExt string) (io.ReadCloser, error) {
	if sourceExt == "" {
		sourceExt = "mkv"
	}
	inPath, cleanup, err := p.spoolToTemp(r, "mp4in_"+randomSuffix()+"."+sourceExt)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	codec := p.cfg.VideoCodec
	if codec == "" {
		codec = "libx264"
	}
	preset := p.cfg.VideoPreset
	if preset == "" {
		preset = "fast"
	}

	outPath := filepath.Join(p.tempDir(), "mp4out_"+randomSuffix()+".mp4")
	args := []string{
		"-y", "-i", inPath,
		"-c:v", codec,
		"-preset", preset,
		"-c:a", "aac",
		"-movflags", "+faststart",
	}
	if p.cfg.Threads > 0 {
		args = append(args, "-threads", strconv.Itoa(p.cfg.Threads))
	}
	args = append(args, outPath)

	if err := p.runFFmpeg(ctx, args, outPath); err != nil {
		return nil, err
	}
	out, err := openSelfDeleting(outPath)
	if err != nil {
		return nil, errno.ErrProcessorOperation
	}
	return out, nil
}

// ConvertToVTT 归一化为WebVTT；输入格式靠ffmpeg内容探测识别
func (p *FFmpegProcessor) ConvertToVTT(ctx context.Context, r io.Reader) (io.ReadCloser, error) {
	inPath, cleanup, err := p.spoolToTemp(r, "vttin_"+randomSuffix()+".srt")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	outPath := filepath.Join(p.tempDir(), "vttout_"+randomSuffix()+".vtt")
	args := []string{"-y", "-i", inPath, "-f", "webvtt", outPath}
	if err := p.runFFmpeg(ctx, args, outPath); err != nil {
		return nil, err
	}
	out, err := openSelfDeleting(outPath)
	if err != nil {
		return nil, errno.ErrProcessorOperation
	}
	return out, nil
}

// runFFmpeg executes ffmpeg and removes the half-written output on failure.
func (p *FFmpegProcessor) runFFmpeg(ctx context.Context, args []string, outPath string) error {
	runCtx, cancel := p.commandContext(ctx)
	defer cancel()

	cmd := exec.CommandContext(runCtx, p.ffmpegBin(), args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		_ = os.Remove(outPath)
		logger.Error("ffmpeg command failed", map[string]interface{}{
			"args":   strings.Join(args, " "),
			"output": tail(string(output), 2000),
			"error":  err.Error(),
		})
		return errno.ErrProcessorOperation
	}
	return nil
}

// probeFile runs ffprobe and maps its JSON output to MediaInfo.
func (p *FFmpegProcessor) probeFile(ctx context.Context, localPath string) (*gateway.MediaInfo, error) {
	runCtx, cancel := p.commandContext(ctx)
	defer cancel()

	cmd := exec.CommandContext(runCtx, p.ffprobeBin(),
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		localPath,
	)
	output, err := cmd.Output()
	if err != nil {
		logger.Error("ffprobe command failed", map[string]interface{}{
			"path":  localPath,
			"error": err.Error(),
		})
		return nil, errno.ErrProcessorOperation
	}

	var probed struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
		Streams []struct {
			Index     int    `json:"index"`
			CodecType string `json:"codec_type"`
			CodecName string `json:"codec_name"`
			Tags      struct {
				Language string `json:"language"`
			} `json:"tags"`
		} `json:"streams"`
	}
	if err := json.Unmarshal(output, &probed); err != nil {
		return nil, errno.ErrProcessorOperation
	}

	info := &gateway.MediaInfo{}
	if probed.Format.Duration != "" {
		if d, err := strconv.ParseFloat(probed.Format.Duration, 64); err == nil {
			info.DurationSeconds = d
		}
	}
	for _, s := range probed.Streams {
		info.Streams = append(info.Streams, vo.MediaStream{
			Index:     s.Index,
			CodecType: s.CodecType,
			CodecName: s.CodecName,
			Language:  s.Tags.Language,
		})
	}
	return info, nil
}

// fetchToTemp pulls a stored object into the temp dir, keeping its extension.
func (p *FFmpegProcessor) fetchToTemp(ctx context.Context, objectKey string) (string, func(), error) {
	src, err := p.storage.Download(ctx, objectKey)
	if err != nil {
		return "", nil, err
	}
	defer src.Close()

	name := "input_" + randomSuffix() + filepath.Ext(objectKey)
	return p.spoolToTemp(src, name)
}

// spoolToTemp writes a stream to a named temp file.
func (p *FFmpegProcessor) spoolToTemp(r io.Reader, name string) (string, func(), error) {
	if err := os.MkdirAll(p.tempDir(), 0o755); err != nil {
		return "", nil, errno.ErrProcessorOperation
	}
	localPath := filepath.Join(p.tempDir(), name)
	f, err := os.Create(localPath)
	if err != nil {
		return "", nil, errno.ErrProcessorOperation
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(localPath)
		return "", nil, errno.ErrProcessorOperation
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(localPath)
		return "", nil, errno.ErrProcessorOperation
	}
	return localPath, func() { _ = os.Remove(localPath) }, nil
}

// selfDeletingFile removes the backing temp file when closed.
type selfDeletingFile struct {
	*os.File
}

func (f *selfDeletingFile) Close() error {
	err := f.File.Close()
	_ = os.Remove(f.File.Name())
	return err
}

func openSelfDeleting(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &selfDeletingFile{File: f}, nil
}

func randomSuffix() string {
	return uuid.New().String()[:8]
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
