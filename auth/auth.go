package auth

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"soundblog/models"
)

type AuthModule struct {
	db     *gorm.DB
	policy Policy
}

func NewAuthModule(db *gorm.DB, policy Policy) *AuthModule {
	return &AuthModule{
		db:     db,
		policy: policy,
	}
}

func (a *AuthModule) RegisterRoutes(router *gin.Engine) {
	router.GET("/register", a.registerPage)
	router.POST("/register", a.registerPost)
	router.GET("/login", a.loginPage)
	router.POST("/login", a.loginPost)
	router.GET("/logout", a.RequireLogin, a.logout)
}

type registerForm struct {
	Name     string `form:"name" binding:"required"`
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required,min=8"`
}

type loginForm struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

func (a *AuthModule) registerPage(c *gin.Context) {
	session := sessions.Default(c)
	if session.Get(sessionUserKey) != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	c.HTML(http.StatusOK, "auth_register.html", gin.H{})
}

func (a *AuthModule) registerPost(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "auth_register.html", gin.H{
			"error": "Please fill in name, a valid email and a password of at least 8 characters",
			"name":  c.PostForm("name"),
			"email": c.PostForm("email"),
		})
		return
	}

	var existingUser models.User
	if err := a.db.Where("email = ?", form.Email).First(&existingUser).Error; err == nil {
		SetFlash(c, "Email already in use, try logging in!")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	passwordHash, err := hashPassword(form.Password)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "auth_register.html", gin.H{
			"error": "Error creating account",
			"name":  form.Name,
			"email": form.Email,
		})
		return
	}

	user := models.User{
		Name:         form.Name,
		Email:        form.Email,
		PasswordHash: passwordHash,
	}

	if err := a.db.Create(&user).Error; err != nil {
		c.HTML(http.StatusInternalServerError, "auth_register.html", gin.H{
			"error": "Error creating account",
			"name":  form.Name,
			"email": form.Email,
		})
		return
	}

	session := sessions.Default(c)
	session.Set(sessionUserKey, user.ID)
	session.Save()

	c.Redirect(http.StatusFound, "/")
}

func (a *AuthModule) loginPage(c *gin.Context) {
	session := sessions.Default(c)
	if session.Get(sessionUserKey) != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	c.HTML(http.StatusOK, "auth_login.html", gin.H{
		"flash": TakeFlash(c),
	})
}

func (a *AuthModule) loginPost(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "auth_login.html", gin.H{
			"error": "Please fill in email and password",
			"email": c.PostForm("email"),
		})
		return
	}

	var user models.User
	if err := a.db.Where("email = ?", form.Email).First(&user).Error; err != nil {
		c.HTML(http.StatusUnauthorized, "auth_login.html", gin.H{
			"error": "Invalid Email",
			"email": form.Email,
		})
		return
	}

	if !checkPasswordHash(form.Password, user.PasswordHash) {
		c.HTML(http.StatusUnauthorized, "auth_login.html", gin.H{
			"error": "Incorrect Password",
			"email": form.Email,
		})
		return
	}

	session := sessions.Default(c)
	session.Set(sessionUserKey, user.ID)
	session.Save()

	c.Redirect(http.StatusFound, "/")
}

func (a *AuthModule) logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()

	c.Redirect(http.StatusFound, "/")
}

// CurrentUser loads the User row for the session identity, if any.
func (a *AuthModule) CurrentUser(c *gin.Context) (*models.User, bool) {
	userID, ok := CurrentUserID(c)
	if !ok {
		return nil, false
	}

	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		return nil, false
	}
	return &user, true
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

func checkPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
