package controllers

import (
	"net/http"
	"strings"
	"time"

	"EmoTrackGo/config"
	"EmoTrackGo/models"
	"EmoTrackGo/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// AuthController 认证控制器
type AuthController struct{}

// flash分类，模板按分类渲染不同颜色
const (
	flashSuccess = "success"
	flashDanger  = "danger"
)

func addFlash(c *gin.Context, category, message string) {
	session := sessions.Default(c)
	session.AddFlash(message, category)
	if err := session.Save(); err != nil {
		config.Logger.Errorw("flash保存失败", "error", err)
	}
}

// popFlashes 读取并清空会话中的flash消息
func popFlashes(c *gin.Context) map[string][]string {
	session := sessions.Default(c)
	flashes := make(map[string][]string)
	for _, category := range []string{flashSuccess, flashDanger} {
		for _, f := range session.Flashes(category) {
			if msg, ok := f.(string); ok {
				flashes[category] = append(flashes[category], msg)
			}
		}
	}
	if err := session.Save(); err != nil {
		config.Logger.Errorw("flash清理失败", "error", err)
	}
	return flashes
}

// ShowRegister 渲染注册页
func (ac *AuthController) ShowRegister(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{"flashes": popFlashes(c)})
}

// Register 处理注册表单
// 注册成功后不自动登录，重定向到登录页
func (ac *AuthController) Register(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")

	var existing models.User
	if err := config.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		addFlash(c, flashDanger, "Email already exists")
		c.Redirect(http.StatusFound, "/register")
		return
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		config.Logger.Errorw("密码哈希失败", "error", err)
		addFlash(c, flashDanger, "Registration failed")
		c.Redirect(http.StatusFound, "/register")
		return
	}

	user := models.User{
		ID:           utils.GenerateID(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := config.DB.Create(&user).Error; err != nil {
		config.Logger.Errorw("用户创建失败", "error", err, "email", email)
		addFlash(c, flashDanger, "Registration failed")
		c.Redirect(http.StatusFound, "/register")
		return
	}

	config.Logger.Infow("用户注册成功", "userID", user.ID, "username", username)
	addFlash(c, flashSuccess, "Registration successful")
	c.Redirect(http.StatusFound, "/login")
}

// ShowLogin 渲染登录页
func (ac *AuthController) ShowLogin(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{"flashes": popFlashes(c)})
}

// Login 处理登录表单，成功后建立会话
func (ac *AuthController) Login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := strings.TrimSpace(c.PostForm("password"))

	var user models.User
	err := config.DB.Where("username = ?", username).First(&user).Error
	if err == nil && utils.CheckPassword(user.PasswordHash, password) {
		session := sessions.Default(c)
		session.Set("uid", user.ID)
		if err := session.Save(); err != nil {
			config.Logger.Errorw("会话保存失败", "error", err, "userID", user.ID)
			addFlash(c, flashDanger, "Login failed")
			c.Redirect(http.StatusFound, "/login")
			return
		}
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	addFlash(c, flashDanger, "Invalid credentials")
	c.Redirect(http.StatusFound, "/login")
}

// Logout 清空会话（含仪表盘摘要快照）并跳转登出确认页
func (ac *AuthController) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		config.Logger.Errorw("会话清理失败", "error", err)
	}
	c.Redirect(http.StatusFound, "/logout_popup")
}
