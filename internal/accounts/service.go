package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/careconnect/careconnect-api/internal/doctors"
	"github.com/careconnect/careconnect-api/internal/identity"
	"github.com/careconnect/careconnect-api/pkg/logging"
)

const defaultDoctorImage = "https://images.unsplash.com/photo-1559839734-2b71ea197ec2?auto=format&fit=crop&q=80&w=200&h=200"

// Service implements account registration and credential login.
type Service struct {
	repo       Repository
	doctorRepo doctors.Repository
	issuer     *identity.TokenIssuer
	bcryptCost int
	logger     *logging.Logger
}

// NewService creates an accounts service.
func NewService(repo Repository, doctorRepo doctors.Repository, issuer *identity.TokenIssuer, bcryptCost int, logger *logging.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:       repo,
		doctorRepo: doctorRepo,
		issuer:     issuer,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Signup registers a new patient or doctor account.
func (s *Service) Signup(ctx context.Context, req *SignupRequest) (*User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("accounts: check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("accounts: hash password: %w", err)
	}

	role := identity.Role(strings.ToUpper(req.Role))
	user, err := s.repo.CreateUser(ctx, &User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
	})
	if err != nil {
		return nil, err
	}

	switch role {
	case identity.RolePatient:
		if _, err := s.repo.CreatePatient(ctx, &Patient{UserID: user.ID}); err != nil {
			return nil, err
		}
	case identity.RoleDoctor:
		if _, err := s.doctorRepo.Create(ctx, &doctors.Doctor{
			UserID:            user.ID,
			Name:              user.Name,
			Email:             user.Email,
			Specialty:         req.Specialty,
			Experience:        req.Experience,
			Location:          req.Location,
			Address:           req.Address,
			Expertise:         req.Expertise,
			Languages:         req.Languages,
			ConsultationFee:   req.ConsultationFee,
			Available:         true,
			VideoConsultation: true,
			Image:             defaultDoctorImage,
		}); err != nil {
			return nil, err
		}
	}

	s.logger.Info("user registered", "user_id", user.ID, "role", role)
	return user, nil
}

// Login verifies credentials and mints a session token carrying the linked
// patient or doctor id.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*Session, error) {
	if req.Email == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("accounts: load user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	claims := identity.Claims{UserID: user.ID, Role: user.Role}
	session := &Session{UserID: user.ID, Name: user.Name, Role: user.Role}

	switch user.Role {
	case identity.RolePatient:
		patient, err := s.repo.GetPatientByUserID(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("accounts: load patient link: %w", err)
		}
		claims.PatientID = patient.ID
		session.PatientID = patient.ID
	case identity.RoleDoctor:
		doc, err := s.doctorRepo.GetByUserID(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("accounts: load doctor link: %w", err)
		}
		claims.DoctorID = doc.ID
		session.DoctorID = doc.ID
	}

	token, err := s.issuer.Issue(claims)
	if err != nil {
		return nil, err
	}
	session.Token = token

	s.logger.Info("user logged in", "user_id", user.ID, "role", user.Role)
	return session, nil
}
