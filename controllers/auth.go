package controllers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/nelnel19/BAHA-ALERT/models"
	"github.com/nelnel19/BAHA-ALERT/store"
)

const profileFolder = "profiles"

type registerReq struct {
	Name     string `json:"name"`
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Age      int    `json:"age"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/auth/register.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req registerReq
	if err := c.BodyParser(&req); err != nil {
		return msgResp(c, fiber.StatusBadRequest, "invalid JSON")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return msgResp(c, fiber.StatusBadRequest, "email and password are required")
	}

	if _, err := h.Users.FindByEmail(c.Context(), req.Email); err == nil {
		return msgResp(c, fiber.StatusBadRequest, "User already exists")
	} else if !errors.Is(err, store.ErrNotFound) {
		return msgResp(c, fiber.StatusInternalServerError, "Internal server error")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return msgResp(c, fiber.StatusInternalServerError, "Internal server error")
	}

	now := clk.Now().UTC()
	user := models.User{
		Name:      strings.TrimSpace(req.Name),
		Fullname:  strings.TrimSpace(req.Fullname),
		Email:     req.Email,
		Password:  string(hashed),
		Age:       req.Age,
		Role:      "user",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := h.Users.Insert(c.Context(), user); err != nil {
		return msgResp(c, fiber.StatusInternalServerError, "Internal server error")
	}
	return msgResp(c, fiber.StatusOK, "User registered")
}

// Login handles POST /api/auth/login.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req loginReq
	if err := c.BodyParser(&req); err != nil {
		return msgResp(c, fiber.StatusBadRequest, "invalid JSON")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	user, err := h.Users.FindByEmail(c.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return msgResp(c, fiber.StatusBadRequest, "Invalid credentials")
		}
		return msgResp(c, fiber.StatusInternalServerError, "Internal server error")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return msgResp(c, fiber.StatusBadRequest, "Invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id": user.ID.Hex(),
	})
	signed, err := token.SignedString([]byte(h.JWTSecret))
	if err != nil {
		return msgResp(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(models.LoginResp{Token: signed, User: user})
}

// EditProfile handles PUT /api/auth/edit/:id. Multipart form; name, age,
// password, and contactNumber are optional, as is a new profile image.
func (h *Handlers) EditProfile(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return msgResp(c, fiber.StatusBadRequest, "expected multipart form")
	}

	var patch store.UserPatch
	if v, ok := formValue(form.Value, "name"); ok {
		patch.Name = &v
	}
	if v, ok := formValue(form.Value, "age"); ok {
		age, aerr := strconv.Atoi(v)
		if aerr != nil || age < 0 {
			return msgResp(c, fiber.StatusBadRequest, "invalid age")
		}
		patch.Age = &age
	}
	if v, ok := formValue(form.Value, "contactNumber"); ok {
		n := NormalizeContactNumber(v)
		patch.ContactNumber = &n
	}
	if v, ok := formValue(form.Value, "password"); ok && strings.TrimSpace(v) != "" {
		hashed, herr := bcrypt.GenerateFromPassword([]byte(v), bcrypt.DefaultCost)
		if herr != nil {
			return msgResp(c, fiber.StatusInternalServerError, "Internal server error")
		}
		s := string(hashed)
		patch.Password = &s
	}

	if file, ferr := c.FormFile("profileImage"); ferr == nil && file != nil {
		up, uerr := h.Storage.Save(c.Context(), profileFolder, file)
		if uerr != nil {
			h.Metrics.UpstreamFailures.WithLabelValues("storage").Inc()
			return msgResp(c, fiber.StatusInternalServerError, "Internal server error")
		}
		patch.ProfileImage = &up.URL
	}

	updated, err := h.Users.Update(c.Context(), c.Params("id"), patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return msgResp(c, fiber.StatusNotFound, "User not found")
		}
		return msgResp(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(fiber.Map{"msg": "Profile updated", "user": updated})
}

// DeleteAccount handles DELETE /api/auth/delete/:id.
func (h *Handlers) DeleteAccount(c *fiber.Ctx) error {
	if err := h.Users.Delete(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return msgResp(c, fiber.StatusNotFound, "User not found")
		}
		return msgResp(c, fiber.StatusInternalServerError, "Internal server error")
	}
	return msgResp(c, fiber.StatusOK, "User deleted")
}
