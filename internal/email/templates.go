package email

import (
	"fmt"

	"github.com/Albert91/deck-builder/internal/models"
)

func (s *Service) generateWelcomeHTML(user *models.User) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Welcome to Deck Builder</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, Cantarell, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
            background-color: #f8f9fa;
        }
        .container {
            background-color: white;
            padding: 40px;
            border-radius: 12px;
            box-shadow: 0 2px 10px rgba(0, 0, 0, 0.1);
        }
        .logo {
            font-size: 28px;
            font-weight: bold;
            color: #4c2d5e;
            margin-bottom: 10px;
            text-align: center;
        }
        .content {
            font-size: 16px;
            margin-bottom: 30px;
        }
        .footer {
            font-size: 13px;
            color: #888;
            text-align: center;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="logo">Deck Builder</div>
        <div class="content">
            <p>Hi %s,</p>
            <p>Your account is ready. You can create up to 5 decks and fill each
            one with up to 100 cards, complete with AI-generated artwork.</p>
            <p>Happy building!</p>
        </div>
        <div class="footer">
            You received this email because an account was created with this address.
        </div>
    </div>
</body>
</html>`, user.Username)
}

func (s *Service) generateWelcomeText(user *models.User) string {
	return fmt.Sprintf(`Hi %s,

Your Deck Builder account is ready. You can create up to 5 decks and fill
each one with up to 100 cards, complete with AI-generated artwork.

Happy building!

You received this email because an account was created with this address.`, user.Username)
}

func (s *Service) generateOTPHTML(user *models.User, code string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Your verification code</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, Cantarell, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
            background-color: #f8f9fa;
        }
        .container {
            background-color: white;
            padding: 40px;
            border-radius: 12px;
            box-shadow: 0 2px 10px rgba(0, 0, 0, 0.1);
        }
        .code {
            font-size: 32px;
            font-weight: bold;
            letter-spacing: 8px;
            text-align: center;
            color: #4c2d5e;
            margin: 30px 0;
        }
        .footer {
            font-size: 13px;
            color: #888;
            text-align: center;
        }
    </style>
</head>
<body>
    <div class="container">
        <p>Hi %s,</p>
        <p>Use this code to sign in to Deck Builder:</p>
        <div class="code">%s</div>
        <p>The code expires in 10 minutes. If you did not request it, you can
        safely ignore this email.</p>
        <div class="footer">Deck Builder</div>
    </div>
</body>
</html>`, user.Username, code)
}

func (s *Service) generateOTPText(user *models.User, code string) string {
	return fmt.Sprintf(`Hi %s,

Use this code to sign in to Deck Builder:

    %s

The code expires in 10 minutes. If you did not request it, you can safely
ignore this email.`, user.Username, code)
}

func (s *Service) generatePasswordResetHTML(user *models.User, resetURL string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Reset your password</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, Cantarell, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
            background-color: #f8f9fa;
        }
        .container {
            background-color: white;
            padding: 40px;
            border-radius: 12px;
            box-shadow: 0 2px 10px rgba(0, 0, 0, 0.1);
        }
        .cta-button {
            display: inline-block;
            background-color: #4c2d5e;
            color: white;
            padding: 12px 24px;
            text-decoration: none;
            border-radius: 6px;
            font-weight: 500;
        }
        .footer {
            font-size: 13px;
            color: #888;
            text-align: center;
        }
    </style>
</head>
<body>
    <div class="container">
        <p>Hi %s,</p>
        <p>We received a request to reset your Deck Builder password. Click the
        button below to choose a new one. The link expires in 1 hour.</p>
        <p style="text-align: center;">
            <a href="%s" class="cta-button">Reset password</a>
        </p>
        <p>If you did not request a reset, you can safely ignore this email.</p>
        <div class="footer">Deck Builder</div>
    </div>
</body>
</html>`, user.Username, resetURL)
}

func (s *Service) generatePasswordResetText(user *models.User, resetURL string) string {
	return fmt.Sprintf(`Hi %s,

We received a request to reset your Deck Builder password. Open the link
below to choose a new one. The link expires in 1 hour.

%s

If you did not request a reset, you can safely ignore this email.`, user.Username, resetURL)
}
