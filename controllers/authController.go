package controllers

import (
	"errors"
	"time"

	"invoicing-backend/database"
	"invoicing-backend/middlewares"
	"invoicing-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type RegisterDTO struct {
	FirstName       string `json:"first_name" validate:"required,min=1"`
	LastName        string `json:"last_name" validate:"required,min=1"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

type LoginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// POST /api/register
func Register(c *fiber.Ctx) error {
	var in RegisterDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	var mailExist models.User
	err := database.DB.Where("email = ?", in.Email).First(&mailExist).Error
	if err == nil {
		return fiber.NewError(fiber.StatusBadRequest, "email already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusInternalServerError, "db error")
	}

	user := models.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
	}
	user.SetPassword(in.Password)

	if err := database.DB.Create(&user).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not create user")
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// POST /api/login
func Login(c *fiber.Ctx) error {
	var in LoginDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	var user models.User
	if err := database.DB.Where("email = ?", in.Email).First(&user).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid credentials")
	}
	if err := user.ComparePassword(in.Password); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid credentials")
	}

	token, err := middlewares.GenerateJWT(user.Id)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not issue token")
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":    user.Id,
			"name":  user.FirstName + " " + user.LastName,
			"email": user.Email,
		},
	})
}

// POST /api/logout
func Logout(c *fiber.Ctx) error {
	cookie := fiber.Cookie{
		Name:     "jwt",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	}
	c.Cookie(&cookie)
	return c.JSON(fiber.Map{
		"message": "success",
	})
}
