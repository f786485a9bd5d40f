package helpers

import "fmt"

// BuildSimpleHTML оборачивает тело письма в общий шаблон.
func BuildSimpleHTML(title, body string) string {
	return fmt.Sprintf(`
<div style="font-family:sans-serif;max-width:600px;margin:0 auto;">
  <h2 style="color:#18181b;">%s</h2>
  %s
</div>`, title, body)
}

// BuildInviteHTML — письмо приглашённому автору с временным паролем.
func BuildInviteHTML(name, email, tempPassword, loginLink string) string {
	body := fmt.Sprintf(`
  <p>%s, здравствуйте!</p>
  <p>Вас пригласили стать автором блога. Данные для входа:</p>
  <ul>
    <li><strong>Почта:</strong> %s</li>
    <li><strong>Временный пароль:</strong> %s</li>
  </ul>
  <p><a href="%s" style="display:inline-block;padding:12px 24px;background:#18181b;color:#fff;text-decoration:none;border-radius:6px;">Войти</a></p>
  <p>После входа смените пароль.</p>`, name, email, tempPassword, loginLink)
	return BuildSimpleHTML("Добро пожаловать!", body)
}

// BuildPasswordResetHTML — письмо со ссылкой на сброс пароля.
func BuildPasswordResetHTML(resetLink string) string {
	body := fmt.Sprintf(`
  <p>Здравствуйте!</p>
  <p>Мы получили запрос на сброс пароля. Перейдите по ссылке, чтобы задать новый:</p>
  <p><a href="%s" style="display:inline-block;padding:12px 24px;background:#18181b;color:#fff;text-decoration:none;border-radius:6px;">Сбросить пароль</a></p>
  <p>Ссылка действует 1 час. Если вы не запрашивали сброс — проигнорируйте письмо.</p>`, resetLink)
	return BuildSimpleHTML("Сброс пароля", body)
}
