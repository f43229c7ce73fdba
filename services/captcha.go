package services

import (
	"context"
	"errors"
	"fmt"

	recaptcha "cloud.google.com/go/recaptchaenterprise/v2/apiv1"
	"cloud.google.com/go/recaptchaenterprise/v2/apiv1/recaptchaenterprisepb"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"github.com/Senorsean/crm-employ-2025-sub001/config"
	"github.com/Senorsean/crm-employ-2025-sub001/dto"
)

var ErrCaptchaRejected = errors.New("reCAPTCHA verification failed")

// CaptchaVerifier scores a reCAPTCHA token.
type CaptchaVerifier interface {
	Verify(ctx context.Context, token, action, userIP, userAgent string) (*dto.AssessmentResult, error)
}

// RecaptchaVerifier creates reCAPTCHA Enterprise assessments.
type RecaptchaVerifier struct {
	projectID   string
	siteKey     string
	credentials string
	log         logrus.FieldLogger
}

func NewRecaptchaVerifier(cfg config.Config, log logrus.FieldLogger) *RecaptchaVerifier {
	return &RecaptchaVerifier{
		projectID:   cfg.Recaptcha.ProjectID,
		siteKey:     cfg.Recaptcha.SiteKey,
		credentials: cfg.Recaptcha.CredentialsFile,
		log:         log,
	}
}

// Verify returns ErrCaptchaRejected for invalid tokens and action mismatches.
func (v *RecaptchaVerifier) Verify(ctx context.Context, token, action, userIP, userAgent string) (*dto.AssessmentResult, error) {
	var opts []option.ClientOption
	if v.credentials != "" {
		opts = append(opts, option.WithCredentialsFile(v.credentials))
	}
	client, err := recaptcha.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create reCAPTCHA client: %w", err)
	}
	defer client.Close()

	req := &recaptchaenterprisepb.CreateAssessmentRequest{
		Parent: fmt.Sprintf("projects/%s", v.projectID),
		Assessment: &recaptchaenterprisepb.Assessment{
			Event: &recaptchaenterprisepb.Event{
				Token:         token,
				SiteKey:       v.siteKey,
				UserIpAddress: userIP,
				UserAgent:     userAgent,
			},
		},
	}
	response, err := client.CreateAssessment(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create assessment: %w", err)
	}

	props := response.GetTokenProperties()
	if props == nil || !props.GetValid() {
		v.log.WithField("reason", props.GetInvalidReason().String()).Info("reCAPTCHA token invalid")
		return nil, ErrCaptchaRejected
	}
	if action != "" && props.GetAction() != action {
		v.log.WithFields(logrus.Fields{"expected": action, "got": props.GetAction()}).Info("reCAPTCHA action mismatch")
		return nil, ErrCaptchaRejected
	}

	result := &dto.AssessmentResult{Action: props.GetAction()}
	if risk := response.GetRiskAnalysis(); risk != nil {
		result.Score = risk.GetScore()
		for _, reason := range risk.GetReasons() {
			result.Reasons = append(result.Reasons, reason.String())
		}
	}
	return result, nil
}
