package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

const refreshCookiePath = "/api/refresh/token"

type Handler struct {
	authService Service
}

func NewHandler(authService Service) *Handler {
	return &Handler{
		authService: authService,
	}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	})
}

func setRefreshCookie(w http.ResponseWriter, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteNoneMode,
		Path:     refreshCookiePath,
	})
}

func (s *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmailOrLogin string `json:"email_or_login"`
		Password     string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Password == "" || req.EmailOrLogin == "" {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	_, sessionTokenOrJWT, refreshToken, err := s.authService.Login(req.EmailOrLogin, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	// empty refresh token means 2FA is pending and the client got a session token
	if refreshToken == "" {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"status": "success",
			"data": map[string]string{
				"message":       "Two-factor authentication required",
				"session_token": sessionTokenOrJWT,
			},
		})
		return
	}

	setRefreshCookie(w, refreshToken)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data": map[string]string{
			"access_token": sessionTokenOrJWT,
		},
	})
}

func (s *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	_, err := r.Cookie("refresh_token")
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			respondJSON(w, http.StatusOK, "Logout successful")
			return
		}
		respondError(w, http.StatusBadRequest, "Error during logout request.")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    "",
		Path:     refreshCookiePath,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteNoneMode,
	})

	respondJSON(w, http.StatusOK, "Logout successful")
}

func (s *Handler) HandleVerifyTwoFactor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionToken string `json:"session_token"`
		Code         string `json:"code"`
	}

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil || req.SessionToken == "" || req.Code == "" {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	existingUser, jwtToken, refreshToken, err := s.authService.VerifyTwoFactor(req.SessionToken, req.Code)
	if err != nil {
		if errors.Is(err, ErrInvalidSessionToken) || errors.Is(err, ErrExpiredSessionToken) || errors.Is(err, ErrInvalid2FACode) {
			respondError(w, http.StatusUnauthorized, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "Could not verify two-factor authentication")
		return
	}

	setRefreshCookie(w, refreshToken)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data": map[string]string{
			"user_id":      existingUser.ID,
			"access_token": jwtToken,
		},
	})
}

func (s *Handler) HandleRegisterTwoFactor(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		respondError(w, http.StatusUnauthorized, "User not authorized")
		return
	}

	otpURI, err := s.authService.RegisterTwoFactor(userID)
	if err != nil {
		if errors.Is(err, ErrUser2FAAlreadyEnabled) {
			respondError(w, http.StatusConflict, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "Could not register two-factor authentication")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Two-factor authentication initiated. Please verify to enable.",
		"data": map[string]string{
			"otp_uri": otpURI,
		},
	})
}

func (s *Handler) HandleVerifyTwoFactorCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil || req.Code == "" {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		respondError(w, http.StatusUnauthorized, "User not authorized")
		return
	}

	err = s.authService.VerifyTwoFactorCode(userID, req.Code)
	if err != nil {
		if errors.Is(err, ErrInvalid2FACode) {
			respondError(w, http.StatusUnauthorized, "Invalid 2fa code")
			return
		} else if errors.Is(err, ErrUser2FAAlreadyEnabled) {
			respondError(w, http.StatusConflict, "Two-factor authentication is already enabled")
			return
		} else if errors.Is(err, ErrUser2FANotEnabled) {
			respondError(w, http.StatusBadRequest, "Two-factor enrolment has not been initiated")
			return
		}
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status": "success",
	})
}

func (s *Handler) HandleDisableTwoFactor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil || req.Code == "" {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		respondError(w, http.StatusUnauthorized, "User not authorized")
		return
	}

	err = s.authService.DisableTwoFactorAuth(userID, req.Code)
	if err != nil {
		if errors.Is(err, ErrUser2FANotEnabled) {
			respondError(w, http.StatusBadRequest, "Two-factor authentication is not enabled")
			return
		} else if errors.Is(err, ErrInvalid2FACode) {
			respondError(w, http.StatusUnauthorized, "Invalid 2FA code")
			return
		}
		respondError(w, http.StatusInternalServerError, "Could not disable two-factor authentication")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Two-factor authentication disabled successfully",
	})
}

func (s *Handler) RefreshAccessToken(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		respondError(w, http.StatusUnauthorized, ErrUserNotFound.Error())
		return
	}

	accessToken, newRefreshToken, err := s.authService.RefreshAccessToken(userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrInternalError.Error())
		return
	}

	setRefreshCookie(w, newRefreshToken)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data": map[string]string{
			"access_token": accessToken,
		},
	})
}
