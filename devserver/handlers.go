package devserver

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	transporthttp "github.com/utpal03/portalkit/transport/http"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	ID           int64    `json:"id"`
	Roles        []string `json:"roles"`
}

func (s *Server) login(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			transporthttp.GinError(c, http.StatusBadRequest, "username and password are required")
			return
		}

		var user User
		err := s.db.Where("username = ? AND role = ?", req.Username, role).First(&user).Error
		if err != nil {
			transporthttp.GinError(c, http.StatusUnauthorized, "invalid username or password")
			return
		}

		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
			transporthttp.GinError(c, http.StatusUnauthorized, "invalid username or password")
			return
		}

		access, err := s.tokens.MintAccess(user.ID, []string{user.Role})
		if err != nil {
			transporthttp.GinError(c, http.StatusInternalServerError, "token generation failed")
			return
		}

		refresh := RefreshToken{
			Token:     NewRefreshToken(),
			UserID:    user.ID,
			ExpiresAt: time.Now().Add(s.cfg.RefreshTokenTTL),
		}
		if err := s.db.Create(&refresh).Error; err != nil {
			transporthttp.GinError(c, http.StatusInternalServerError, "session creation failed")
			return
		}

		transporthttp.GinJSON(c, http.StatusOK, loginResponse{
			AccessToken:  access,
			RefreshToken: refresh.Token,
			ID:           user.ID,
			Roles:        []string{user.Role},
		})
	}
}

type signupRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required"`
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required,min=6"`
	PhoneNumber string `json:"phoneNumber" binding:"required"`

	Age        int    `json:"age"`
	BloodGroup string `json:"bloodGroup"`

	Department       string   `json:"department"`
	LicenseNumber    string   `json:"licenseNumber"`
	ConsultationFees string   `json:"consultationFees"`
	AvailableDays    []string `json:"availableDays"`
}

func (s *Server) signup(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			req   signupRequest
			image *multipart.FileHeader
		)

		if isMultipart(c) {
			if err := bindMultipartSignup(c, &req); err != nil {
				transporthttp.GinError(c, http.StatusBadRequest, err)
				return
			}
			image, _ = c.FormFile("profileImage")
		} else if err := c.ShouldBindJSON(&req); err != nil {
			transporthttp.GinError(c, http.StatusBadRequest, "incomplete signup form")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			transporthttp.GinError(c, http.StatusInternalServerError, "password hashing failed")
			return
		}

		days, _ := json.Marshal(req.AvailableDays)

		user := User{
			Username:         req.Username,
			Email:            req.Email,
			PasswordHash:     string(hash),
			Name:             req.Name,
			PhoneNumber:      req.PhoneNumber,
			Role:             role,
			Age:              req.Age,
			BloodGroup:       req.BloodGroup,
			Department:       req.Department,
			LicenseNumber:    req.LicenseNumber,
			ConsultationFees: req.ConsultationFees,
			AvailableDays:    string(days),
		}
		if image != nil {
			user.ProfileImage = filepath.Base(image.Filename)
		}

		if err := s.db.Create(&user).Error; err != nil {
			transporthttp.GinError(c, http.StatusConflict, "username or email already registered")
			return
		}

		s.logger.Info().Str("username", user.Username).Str("role", role).Msg("user registered")
		transporthttp.GinMessage(c, http.StatusCreated, "registration successful")
	}
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

func bindMultipartSignup(c *gin.Context, req *signupRequest) error {
	req.Name = c.PostForm("name")
	req.Email = c.PostForm("email")
	req.Username = c.PostForm("username")
	req.Password = c.PostForm("password")
	req.PhoneNumber = c.PostForm("phoneNumber")
	req.BloodGroup = c.PostForm("bloodGroup")
	req.Department = c.PostForm("department")
	req.LicenseNumber = c.PostForm("licenseNumber")
	req.ConsultationFees = c.PostForm("consultationFees")

	if age := c.PostForm("age"); age != "" {
		v, err := strconv.Atoi(age)
		if err != nil {
			return errors.New("invalid age")
		}
		req.Age = v
	}

	if days := c.PostForm("availableDays"); days != "" {
		if err := json.Unmarshal([]byte(days), &req.AvailableDays); err != nil {
			return errors.New("invalid available days")
		}
	}

	if req.Name == "" || req.Email == "" || req.Username == "" || len(req.Password) < 6 || req.PhoneNumber == "" {
		return errors.New("incomplete signup form")
	}

	return nil
}

func (s *Server) forgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		transporthttp.GinError(c, http.StatusBadRequest, "email is required")
		return
	}

	// Same response either way so account existence does not leak.
	var user User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err == nil {
		s.mailer.SendPasswordReset(user.Email)
	}

	transporthttp.GinMessage(c, http.StatusOK, "password reset mail sent")
}

func (s *Server) refreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		transporthttp.GinError(c, http.StatusBadRequest, "refresh token is required")
		return
	}

	var stored RefreshToken
	err := s.db.Where("token = ?", req.RefreshToken).First(&stored).Error
	if err != nil {
		transporthttp.GinError(c, http.StatusUnauthorized, "unknown refresh token")
		return
	}

	if time.Now().After(stored.ExpiresAt) {
		s.db.Delete(&stored)
		transporthttp.GinError(c, http.StatusUnauthorized, "refresh token expired")
		return
	}

	var user User
	if err := s.db.First(&user, stored.UserID).Error; err != nil {
		transporthttp.GinError(c, http.StatusUnauthorized, "unknown user")
		return
	}

	access, err := s.tokens.MintAccess(user.ID, []string{user.Role})
	if err != nil {
		transporthttp.GinError(c, http.StatusInternalServerError, "token generation failed")
		return
	}

	transporthttp.GinJSON(c, http.StatusOK, gin.H{"accessToken": access})
}

func (s *Server) logout(c *gin.Context) {
	// The front-end authenticates logout with the raw refresh token.
	token := c.GetHeader("Authorization")
	if token == "" {
		transporthttp.GinError(c, http.StatusUnauthorized, "missing refresh token")
		return
	}

	res := s.db.Where("token = ?", token).Delete(&RefreshToken{})
	if res.Error != nil {
		transporthttp.GinError(c, http.StatusInternalServerError, "logout failed")
		return
	}
	if res.RowsAffected == 0 {
		transporthttp.GinError(c, http.StatusUnauthorized, "unknown refresh token")
		return
	}

	transporthttp.GinMessage(c, http.StatusOK, "logged out")
}

type bookingRequest struct {
	DoctorID int64  `json:"doctorId" binding:"required"`
	Date     string `json:"date" binding:"required"`
	Slot     string `json:"slot" binding:"required"`
	Reason   string `json:"reason"`
}

func (s *Server) bookAppointment(c *gin.Context) {
	if !callerHasRole(c, "PATIENT") {
		transporthttp.GinError(c, http.StatusForbidden, "only patients can book appointments")
		return
	}

	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		transporthttp.GinError(c, http.StatusBadRequest, "doctor, date and slot are required")
		return
	}

	var doctor User
	err := s.db.Where("id = ? AND role = ?", req.DoctorID, "DOCTOR").First(&doctor).Error
	if err != nil {
		transporthttp.GinError(c, http.StatusNotFound, "unknown doctor")
		return
	}

	var patient User
	if err := s.db.First(&patient, callerID(c)).Error; err != nil {
		transporthttp.GinError(c, http.StatusUnauthorized, "unknown user")
		return
	}

	appt := Appointment{
		DoctorID:    doctor.ID,
		PatientID:   patient.ID,
		PatientName: patient.Name,
		Date:        req.Date,
		Slot:        req.Slot,
		Reason:      req.Reason,
		Status:      "PENDING",
	}
	if err := s.db.Create(&appt).Error; err != nil {
		transporthttp.GinError(c, http.StatusInternalServerError, "booking failed")
		return
	}

	transporthttp.GinJSON(c, http.StatusCreated, appt)
}

func (s *Server) doctorAppointments(c *gin.Context) {
	doctorID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		transporthttp.GinError(c, http.StatusBadRequest, "invalid doctor id")
		return
	}

	// Doctors may only read their own schedule.
	if !callerHasRole(c, "DOCTOR") || callerID(c) != doctorID {
		transporthttp.GinError(c, http.StatusForbidden, "not your schedule")
		return
	}

	appts := make([]Appointment, 0)
	err = s.db.Where("doctor_id = ?", doctorID).Order("date, slot").Find(&appts).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		transporthttp.GinError(c, http.StatusInternalServerError, "listing failed")
		return
	}

	transporthttp.GinJSON(c, http.StatusOK, appts)
}
