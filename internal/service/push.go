package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hydromate/backend/internal/logger"
	"github.com/hydromate/backend/internal/models"
)

// snsAPI is the subset of the SNS client the push service uses.
type snsAPI interface {
	CreatePlatformEndpoint(ctx context.Context, params *sns.CreatePlatformEndpointInput, optFns ...func(*sns.Options)) (*sns.CreatePlatformEndpointOutput, error)
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// PushService registers device tokens as SNS platform endpoints and
// delivers hydration reminders to them.
type PushService struct {
	db          *gorm.DB
	sns         snsAPI
	platformARN string
	logger      *logger.Logger
}

// NewPushService creates a new PushService using the default AWS credential
// chain.
func NewPushService(db *gorm.DB, region, platformARN string, log *logger.Logger) (*PushService, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &PushService{
		db:          db,
		sns:         sns.NewFromConfig(cfg),
		platformARN: platformARN,
		logger:      log,
	}, nil
}

var _ Pusher = (*PushService)(nil)

func tokenHash(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// RegisterDevice creates (or refreshes) the SNS endpoint for a device token
// and persists it for the user. Registering an already-known token updates
// the stored endpoint in place.
func (p *PushService) RegisterDevice(ctx context.Context, userID uuid.UUID, platform, token string) (*models.UserDevice, error) {
	if p.platformARN == "" {
		return nil, fmt.Errorf("SNS_PLATFORM_ARN not set")
	}

	out, err := p.sns.CreatePlatformEndpoint(ctx, &sns.CreatePlatformEndpointInput{
		PlatformApplicationArn: aws.String(p.platformARN),
		Token:                  aws.String(token),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create platform endpoint: %w", err)
	}

	hash := tokenHash(token)
	var existing models.UserDevice
	err = p.db.WithContext(ctx).Where("user_id = ? AND token_hash = ?", userID, hash).First(&existing).Error
	if err == nil {
		existing.Platform = platform
		existing.EndpointARN = aws.ToString(out.EndpointArn)
		if err := p.db.WithContext(ctx).Save(&existing).Error; err != nil {
			return nil, fmt.Errorf("failed to update device: %w", err)
		}
		return &existing, nil
	}

	device := &models.UserDevice{
		UserID:      userID,
		Platform:    platform,
		TokenHash:   hash,
		EndpointARN: aws.ToString(out.EndpointArn),
		Enabled:     true,
	}
	if err := p.db.WithContext(ctx).Create(device).Error; err != nil {
		return nil, fmt.Errorf("failed to save device: %w", err)
	}
	return device, nil
}

// PushToUser publishes a notification to every enabled endpoint of the
// user. Individual endpoint failures are logged and skipped; an error is
// returned only when nothing could be attempted.
func (p *PushService) PushToUser(ctx context.Context, userID uuid.UUID, title, body string) error {
	var devices []models.UserDevice
	if err := p.db.WithContext(ctx).Where("user_id = ? AND enabled = ?", userID, true).Find(&devices).Error; err != nil {
		return fmt.Errorf("failed to load devices: %w", err)
	}
	if len(devices) == 0 {
		return nil
	}

	msg := map[string]any{
		"default": body,
		"GCM": map[string]any{
			"notification": map[string]string{
				"title": title,
				"body":  body,
			},
		},
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal push payload: %w", err)
	}

	for _, device := range devices {
		_, err := p.sns.Publish(ctx, &sns.PublishInput{
			MessageStructure: aws.String("json"),
			Message:          aws.String(string(raw)),
			TargetArn:        aws.String(device.EndpointARN),
		})
		if err != nil {
			p.logger.Warn("failed to publish to endpoint", "user_id", userID, "platform", device.Platform, "error", err)
		}
	}
	return nil
}
