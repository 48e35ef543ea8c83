package ratelimit

import (
	"sync"
	"time"
)

type entry struct {
	count     int
	resetTime time.Time
}

// Limiter conta requisições por chave de cliente numa janela fixa.
//
// O mapa nunca é esvaziado: chaves antigas ficam com o contador zerado
// logicamente (resetTime no passado) mas continuam ocupando memória. Para um
// serviço pequeno de um endpoint isso é aceitável; uma versão com tráfego
// real precisaria de varredura periódica ou LRU.
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	window  time.Duration
	max     int
	now     func() time.Time
}

// New cria um Limiter com a janela e o máximo de requisições por janela.
func New(window time.Duration, max int) *Limiter {
	return &Limiter{
		entries: make(map[string]*entry),
		window:  window,
		max:     max,
		now:     time.Now,
	}
}

// Allow registra uma requisição da chave e diz se ela passa. O contador
// continua subindo além do máximo, então a janela não congela no teto.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[key]
	if !ok {
		l.entries[key] = &entry{count: 1, resetTime: now.Add(l.window)}
		return true
	}

	if now.After(e.resetTime) {
		e.count = 1
		e.resetTime = now.Add(l.window)
		return true
	}

	e.count++
	return e.count <= l.max
}
