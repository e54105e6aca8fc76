package constant

const (
	// Chat response types surfaced to the client.
	ResponseTypeConsent  = "consent"
	ResponseTypeQuestion = "question"
	ResponseTypeResult   = "result"

	// Greeting and consent flow messages.
	ConsentRequestMessage  = "안녕하세요! 정부 지원사업 매칭 서비스입니다. 개인정보 처리에 동의하시겠습니까?"
	ConsentDeclinedMessage = "개인정보 처리에 동의하지 않으셔서 매칭을 진행할 수 없습니다. 동의하시면 언제든 다시 시작할 수 있어요."
	ResultIntroMessage     = "감사합니다! 수집된 정보로 맞춤 지원사업을 찾아드렸습니다."
	NoResultMessage        = "조건에 맞는 지원사업을 찾지 못했습니다. 조건을 바꿔서 다시 시도해보세요."

	ConsentKeyword = "동의"
)

// Greetings restart the consent flow regardless of session state.
var Greetings = []string{"안녕하세요", "안녕", "hello", "hi"}
